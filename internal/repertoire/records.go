package repertoire

import (
	"fmt"
	"time"

	"github.com/pbaille/rep/internal/domain"
)

// Record is the flat form of a node, used to persist a tree.
// Records are numbered in depth-first order so a parent always precedes its
// children; the root is record 0 with Parent -1.
type Record struct {
	Index        int                   `msgpack:"i"`
	Parent       int                   `msgpack:"p"`
	Move         string                `msgpack:"m"`
	PlayerToMove bool                  `msgpack:"ptm"`
	Training     *domain.TrainingState `msgpack:"t,omitempty"`
}

// Records flattens the live nodes of the tree, renumbering them densely.
func (t *Tree) Records() []Record {
	index := make(map[NodeID]int, len(t.nodes))
	var out []Record
	t.Walk(func(n *Node) {
		r := Record{
			Index:        len(out),
			Parent:       -1,
			Move:         n.Move,
			PlayerToMove: n.PlayerToMove,
		}
		if n.Parent != NoNode {
			r.Parent = index[n.Parent]
		}
		if n.Training != nil {
			ts := *n.Training
			r.Training = &ts
		}
		index[n.ID] = r.Index
		out = append(out, r)
	})
	return out
}

// Restore rebuilds a tree from its records, checking the structural
// invariants a tree built through AddMove always satisfies.
func Restore(meta Meta, records []Record) (*Tree, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no root", ErrInvalidTree)
	}
	root := records[0]
	if root.Index != 0 || root.Parent != -1 || root.Move != "" || root.Training != nil {
		return nil, fmt.Errorf("%w: malformed root", ErrInvalidTree)
	}
	if meta.LearningBudget < 0 {
		return nil, fmt.Errorf("%w: negative learning budget %d", ErrInvalidTree, meta.LearningBudget)
	}

	t := &Tree{Meta: meta}
	t.nodes = []*Node{{ID: 0, Parent: NoNode, PlayerToMove: root.PlayerToMove}}

	for i := 1; i < len(records); i++ {
		r := records[i]
		if r.Index != i {
			return nil, fmt.Errorf("%w: record %d out of order", ErrInvalidTree, r.Index)
		}
		if r.Parent < 0 || r.Parent >= i {
			return nil, fmt.Errorf("%w: record %d has parent %d", ErrInvalidTree, i, r.Parent)
		}
		if r.Move == "" {
			return nil, fmt.Errorf("%w: record %d has no move", ErrInvalidTree, i)
		}
		p := t.nodes[r.Parent]
		if _, dup := t.Child(p.ID, r.Move); dup {
			return nil, fmt.Errorf("%w: duplicate move %s at record %d", ErrInvalidTree, r.Move, i)
		}
		if r.PlayerToMove == p.PlayerToMove {
			return nil, fmt.Errorf("%w: record %d breaks turn alternation", ErrInvalidTree, i)
		}
		want := t.drillable(p, r.PlayerToMove)
		if want != (r.Training != nil) {
			return nil, fmt.Errorf("%w: record %d training state mismatch", ErrInvalidTree, i)
		}
		var ts *domain.TrainingState
		if r.Training != nil {
			if !r.Training.Status.IsValid() {
				return nil, fmt.Errorf("%w: record %d: %s", ErrInvalidTree, i, r.Training.Status)
			}
			c := *r.Training
			ts = &c
		}
		t.attach(p, r.Move, ts, time.Time{})
	}
	return t, nil
}
