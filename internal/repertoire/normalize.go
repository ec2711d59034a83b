package repertoire

import (
	"time"

	"github.com/pbaille/rep/internal/domain"
)

// Normalize brings the set of positions in training in line with the
// learning budget. On the first call of a day the daily counter is reset and
// the whole budget is available; later calls on the same day only hand out
// what the counter has not consumed. It returns the unused budget.
func (t *Tree) Normalize(today time.Time) int {
	today = domain.Day(today)
	threshold := t.LearningBudget - t.Counter.Count
	if t.Counter.Date.Before(today) {
		t.Counter = domain.DailyCounter{Date: today}
		threshold = t.LearningBudget
	}
	return t.activate(threshold)
}

// activate walks the reachable positions with a shared budget. Positions in
// training while the budget is exhausted are deactivated; inactive positions
// are activated while it lasts. Review positions are left alone.
func (t *Tree) activate(threshold int) int {
	t.walkReachable(t.Root(), func(n *Node) {
		ts := n.Training
		if ts == nil {
			return
		}
		if threshold <= 0 {
			if ts.Status.IsLearning() {
				ts.Status = domain.Inactive
			}
			return
		}
		if ts.Status == domain.Inactive {
			ts.Status = domain.New
		}
		if ts.Status.IsLearning() {
			threshold--
		}
	})
	return threshold
}
