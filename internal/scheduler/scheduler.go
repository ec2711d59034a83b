// Package scheduler grades practised cards and reschedules their positions.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
)

var (
	ErrAborted      = errors.New("scheduler: session aborted")
	ErrNotDrillable = errors.New("scheduler: card has no training state")
)

// Re-queue offsets within a session.
const (
	firstStepOffset  = 1
	secondStepOffset = 6
	lapseOffset      = 2
	maxJitter        = 3
)

// Config configures a Scheduler.
type Config struct {
	// Rand drives the offset jitter and review multipliers.
	// nil → seeded from the clock.
	Rand *rand.Rand
	// ClampCounter keeps the daily counter from going below zero when a
	// review position lapses. Off by default.
	ClampCounter bool
}

// Scheduler applies grades to cards.
type Scheduler struct {
	rng          *rand.Rand
	clampCounter bool
}

// New creates a Scheduler.
func New(cfg Config) *Scheduler {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{rng: rng, clampCounter: cfg.ClampCounter}
}

// Outcome describes what a grade did to a card.
type Outcome struct {
	From     domain.Status
	To       domain.Status
	Requeued bool
	Offset   int
	DueDate  time.Time // set when To is Review
}

// Grade applies grade to the position of card. Cards still being learned are
// re-inserted into q; positions reaching review get a due date. Abort leaves
// everything untouched and returns ErrAborted.
func (s *Scheduler) Grade(t *repertoire.Tree, q *repertoire.Queue, card repertoire.Card, grade domain.Grade, today time.Time) (Outcome, error) {
	if grade == domain.Abort {
		return Outcome{}, ErrAborted
	}
	if !grade.IsValid() {
		return Outcome{}, fmt.Errorf("grade card: %w: %d", domain.ErrInvalidGrade, int(grade))
	}
	n := t.Node(card.Node)
	if n == nil || n.Training == nil {
		return Outcome{}, fmt.Errorf("grade card %d: %w", card.Node, ErrNotDrillable)
	}

	ts := n.Training
	today = domain.Day(today)
	out := Outcome{From: ts.Status}

	requeue := func(offset int) {
		out.Requeued = true
		out.Offset = q.Insert(min(offset, q.Len()), card)
	}
	review := func(days int) {
		ts.Status = domain.Review
		ts.LastDate = today
		ts.DueDate = domain.AddDays(today, days)
		out.DueDate = ts.DueDate
	}

	switch ts.Status {
	case domain.New:
		// First sight of the position: the grade carries no information.
		ts.Status = domain.FirstStep
		requeue(firstStepOffset + s.jitter())

	case domain.FirstStep:
		switch grade {
		case domain.Easy:
			review(1)
			t.Counter.Count++
		case domain.OK:
			ts.Status = domain.SecondStep
			requeue(secondStepOffset + s.jitter())
		case domain.Hard:
			requeue(firstStepOffset + s.jitter())
		}

	case domain.SecondStep:
		switch grade {
		case domain.Easy:
			review(3)
			t.Counter.Count++
		case domain.OK:
			review(1)
			t.Counter.Count++
		case domain.Hard:
			ts.Status = domain.FirstStep
			requeue(firstStepOffset + s.jitter())
		}

	case domain.Review:
		gap := ts.Gap()
		switch grade {
		case domain.Hard:
			ts.Status = domain.FirstStep
			requeue(lapseOffset)
			s.decrement(t)
		case domain.Easy:
			review(scale(gap, 3+s.rng.Float64()))
		case domain.OK:
			review(scale(gap, 2+s.rng.Float64()))
		}

	default:
		return Outcome{}, fmt.Errorf("grade card %d: position is %s", card.Node, ts.Status)
	}

	out.To = ts.Status
	return out, nil
}

func (s *Scheduler) decrement(t *repertoire.Tree) {
	if s.clampCounter && t.Counter.Count <= 0 {
		return
	}
	t.Counter.Count--
}

// jitter spreads re-queued cards by 0 to maxJitter places.
func (s *Scheduler) jitter() int {
	return int(math.Round(maxJitter * s.rng.Float64()))
}

func scale(gap int, mult float64) int {
	return int(math.Round(float64(gap) * mult))
}
