// Package repertoire models an opening repertoire as a move tree whose
// drillable positions carry a spaced-repetition schedule.
package repertoire

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/rep/internal/domain"
)

// DefaultLearningBudget caps the positions in training at the same time.
const DefaultLearningBudget = 10

// NodeID addresses a node in the tree's arena.
type NodeID int

// NoNode is the parent handle of the root.
const NoNode NodeID = -1

// Node is a position of the repertoire, reached from its parent by Move.
type Node struct {
	ID           NodeID
	Parent       NodeID
	Move         string // UCI, empty at the root
	PlayerToMove bool
	Children     []NodeID // index 0 is the main line
	Training     *domain.TrainingState
}

// IsDrillable reports whether the node carries a training schedule.
func (n *Node) IsDrillable() bool {
	return n.Training != nil
}

// Meta is the repertoire-level data stored alongside the tree.
type Meta struct {
	ID             string
	Name           string
	Player         domain.Color
	StartFEN       string
	LearningBudget int
	Counter        domain.DailyCounter
	CreatedAt      time.Time
}

// Tree is a repertoire: metadata plus the arena of its nodes.
// Nodes are owned by the arena; Parent and Children are handles into it.
type Tree struct {
	Meta

	nodes []*Node
}

// New creates a repertoire holding only its root position.
// sideToMove is the side to move in startFEN.
func New(name string, player domain.Color, startFEN string, sideToMove domain.Color, today time.Time) *Tree {
	t := &Tree{Meta: Meta{
		ID:             uuid.New().String(),
		Name:           name,
		Player:         player,
		StartFEN:       startFEN,
		LearningBudget: DefaultLearningBudget,
		Counter:        domain.DailyCounter{Date: domain.Day(today)},
		CreatedAt:      today,
	}}
	t.nodes = []*Node{{ID: 0, Parent: NoNode, PlayerToMove: player == sideToMove}}
	return t
}

// Root returns the handle of the starting position.
func (t *Tree) Root() NodeID {
	return 0
}

// Node returns the node for id, or nil if it does not exist.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Len returns the number of live nodes, root included.
func (t *Tree) Len() int {
	n := 0
	for _, node := range t.nodes {
		if node != nil {
			n++
		}
	}
	return n
}

// Child returns the child of parent reached by move.
func (t *Tree) Child(parent NodeID, move string) (NodeID, bool) {
	p := t.Node(parent)
	if p == nil {
		return NoNode, false
	}
	for _, c := range p.Children {
		if t.nodes[c].Move == move {
			return c, true
		}
	}
	return NoNode, false
}

// MainLine returns the first child of id.
func (t *Tree) MainLine(id NodeID) (NodeID, bool) {
	n := t.Node(id)
	if n == nil || len(n.Children) == 0 {
		return NoNode, false
	}
	return n.Children[0], true
}

// Path returns the moves leading from the root to id.
func (t *Tree) Path(id NodeID) []string {
	var moves []string
	for n := t.Node(id); n != nil && n.Parent != NoNode; n = t.Node(n.Parent) {
		moves = append(moves, n.Move)
	}
	slices.Reverse(moves)
	return moves
}

// drillable decides whether a child created under parent gets a training
// schedule: it must be the player's reply to an opponent move.
func (t *Tree) drillable(parent *Node, playerToMove bool) bool {
	return !playerToMove && parent.Parent != NoNode
}

// AddMove adds move below parent and returns the child's handle.
// If the move already exists its node is returned unchanged.
// Legality of move is the caller's concern.
func (t *Tree) AddMove(parent NodeID, move string, today time.Time) (NodeID, error) {
	p := t.Node(parent)
	if p == nil {
		return NoNode, fmt.Errorf("add move %s: %w: node %d", move, ErrNodeNotFound, parent)
	}
	if id, ok := t.Child(parent, move); ok {
		return id, nil
	}
	return t.attach(p, move, nil, today), nil
}

// attach appends a new child to p. A nil training state is replaced by a
// fresh one when the child is drillable.
func (t *Tree) attach(p *Node, move string, training *domain.TrainingState, today time.Time) NodeID {
	child := &Node{
		ID:           NodeID(len(t.nodes)),
		Parent:       p.ID,
		Move:         move,
		PlayerToMove: !p.PlayerToMove,
	}
	if t.drillable(p, child.PlayerToMove) {
		if training == nil {
			training = domain.NewTrainingState(today)
		}
		child.Training = training
	}
	t.nodes = append(t.nodes, child)
	p.Children = append(p.Children, child.ID)
	return child.ID
}

// DeleteMove removes the child of parent reached by move, with its subtree.
func (t *Tree) DeleteMove(parent NodeID, move string) error {
	id, ok := t.Child(parent, move)
	if !ok {
		return fmt.Errorf("delete move %s: %w", move, ErrMoveNotFound)
	}
	p := t.nodes[parent]
	p.Children = slices.DeleteFunc(p.Children, func(c NodeID) bool { return c == id })

	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, t.nodes[cur].Children...)
		t.nodes[cur] = nil
	}
	return nil
}

// PromoteMove makes the child of parent reached by move its main line.
func (t *Tree) PromoteMove(parent NodeID, move string) error {
	id, ok := t.Child(parent, move)
	if !ok {
		return fmt.Errorf("promote move %s: %w", move, ErrMoveNotFound)
	}
	p := t.nodes[parent]
	i := slices.Index(p.Children, id)
	copy(p.Children[1:i+1], p.Children[:i])
	p.Children[0] = id
	return nil
}

// Walk visits the nodes in depth-first order following every branch.
func (t *Tree) Walk(fn func(n *Node)) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := t.nodes[id]
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.Root())
}

// walkReachable visits the positions reachable in play: below a node where
// the player is to move only the main line is followed, below an opponent
// node every reply is.
func (t *Tree) walkReachable(id NodeID, fn func(n *Node)) {
	n := t.nodes[id]
	fn(n)
	if len(n.Children) == 0 {
		return
	}
	if n.PlayerToMove {
		t.walkReachable(n.Children[0], fn)
		return
	}
	for _, c := range n.Children {
		t.walkReachable(c, fn)
	}
}
