package repertoire

import (
	"time"

	"github.com/pbaille/rep/internal/domain"
)

// Card is one drill: the position before an opponent move, that move (the
// problem) and the prepared reply (the solution). It can be presented
// without the tree.
type Card struct {
	Node     NodeID
	StartFEN string
	Line     []string // moves from the start position to the problem
	Problem  string
	Solution string
}

// Queue is the ordered list of cards of a practice session.
type Queue struct {
	cards []Card
}

// NewQueue returns a queue holding cards in order.
func NewQueue(cards ...Card) *Queue {
	return &Queue{cards: cards}
}

// Len returns the number of cards left.
func (q *Queue) Len() int {
	return len(q.cards)
}

// Pop removes and returns the first card.
func (q *Queue) Pop() (Card, bool) {
	if len(q.cards) == 0 {
		return Card{}, false
	}
	c := q.cards[0]
	q.cards = q.cards[1:]
	return c, true
}

// Insert puts c at offset, clamped to the queue bounds.
func (q *Queue) Insert(offset int, c Card) int {
	offset = min(max(offset, 0), len(q.cards))
	q.cards = append(q.cards, Card{})
	copy(q.cards[offset+1:], q.cards[offset:])
	q.cards[offset] = c
	return offset
}

// Cards returns a copy of the queued cards.
func (q *Queue) Cards() []Card {
	out := make([]Card, len(q.cards))
	copy(out, q.cards)
	return out
}

// IsEligible reports whether a training state is scheduled for today.
func IsEligible(ts *domain.TrainingState, today time.Time) bool {
	if ts == nil {
		return false
	}
	return ts.Status.IsLearning() || ts.IsDue(today)
}

// BuildQueue collects the cards due today in traversal order. The tree is
// not modified.
func (t *Tree) BuildQueue(today time.Time) *Queue {
	q := &Queue{}
	t.walkReachable(t.Root(), func(n *Node) {
		if !IsEligible(n.Training, today) {
			return
		}
		if c, ok := t.card(n); ok {
			q.cards = append(q.cards, c)
		}
	})
	return q
}

// card builds the drill context of a drillable node. A node whose parent
// move is missing has nothing to drill.
func (t *Tree) card(n *Node) (Card, bool) {
	problem := t.Node(n.Parent)
	if problem == nil || problem.Parent == NoNode {
		return Card{}, false
	}
	return Card{
		Node:     n.ID,
		StartFEN: t.StartFEN,
		Line:     t.Path(problem.Parent),
		Problem:  problem.Move,
		Solution: n.Move,
	}, true
}
