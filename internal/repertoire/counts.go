package repertoire

import (
	"time"

	"github.com/pbaille/rep/internal/domain"
)

// Counts summarises the training states of a repertoire. All fields but
// Total only consider positions reachable in play.
type Counts struct {
	New        int `json:"new"`
	FirstStep  int `json:"first_step"`
	SecondStep int `json:"second_step"`
	Review     int `json:"review"`
	Inactive   int `json:"inactive"`
	Due        int `json:"due"`
	Reachable  int `json:"reachable"`
	Total      int `json:"total"`
}

// Learning is the number of positions between New and Review.
func (c Counts) Learning() int {
	return c.FirstStep + c.SecondStep
}

// Waiting is the number of cards a session would queue today.
func (c Counts) Waiting() int {
	return c.New + c.Learning() + c.Due
}

// Coverage is the percentage of reachable positions in review.
func (c Counts) Coverage() (int, bool) {
	if c.Reachable == 0 {
		return 0, false
	}
	return int(float64(c.Review)/float64(c.Reachable)*100 + 0.5), true
}

// Counts tallies the training states of the tree on the given day.
func (t *Tree) Counts(today time.Time) Counts {
	var c Counts
	t.walkReachable(t.Root(), func(n *Node) {
		ts := n.Training
		if ts == nil {
			return
		}
		switch ts.Status {
		case domain.New:
			c.New++
		case domain.FirstStep:
			c.FirstStep++
		case domain.SecondStep:
			c.SecondStep++
		case domain.Review:
			c.Review++
		case domain.Inactive:
			c.Inactive++
		}
		if ts.IsDue(today) {
			c.Due++
		}
		c.Reachable++
	})
	t.Walk(func(n *Node) {
		if n.Training != nil {
			c.Total++
		}
	})
	return c
}
