package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/scheduler"
	"github.com/rs/zerolog"
)

// Presenter shows a card to the user and returns their grade. New cards
// are shown for exposure only; the returned grade is ignored for them.
type Presenter interface {
	Present(card repertoire.Card, status domain.Status, counts repertoire.Counts) (domain.Grade, error)
}

// Summary reports how a practice session ended.
type Summary struct {
	Graded    int
	Remaining int
	Aborted   bool
}

// UpToDate reports whether there was nothing to practise.
func (s Summary) UpToDate() bool {
	return s.Graded == 0 && s.Remaining == 0 && !s.Aborted
}

// Trainer runs practice sessions.
type Trainer struct {
	store Store
	sched *scheduler.Scheduler
	now   Clock
	log   zerolog.Logger
}

// NewTrainer creates a Trainer.
func NewTrainer(store Store, sched *scheduler.Scheduler, now Clock, log zerolog.Logger) *Trainer {
	return &Trainer{
		store: store,
		sched: sched,
		now:   now,
		log:   log.With().Str("component", "trainer").Logger(),
	}
}

// Run practises the cards of repertoire name that are due today, until
// the queue is empty or the user aborts. Grades given so far are saved
// in both cases; an aborted card is left as it was.
func (tr *Trainer) Run(ctx context.Context, name string, p Presenter) (Summary, error) {
	t, err := Open(ctx, tr.store, name, tr.now)
	if err != nil {
		return Summary{}, err
	}
	today := domain.Day(tr.now())
	q := t.BuildQueue(today)
	log := tr.log.With().Str("repertoire", name).Logger()
	log.Info().Int("queued", q.Len()).Msg("session started")

	var sum Summary
	for q.Len() > 0 {
		if ctx.Err() != nil {
			sum.Aborted = true
			break
		}
		card, _ := q.Pop()
		status := t.Node(card.Node).Training.Status

		grade, err := p.Present(card, status, t.Counts(today))
		if err != nil {
			tr.saveAfterFailure(ctx, t, log)
			return sum, fmt.Errorf("present card: %w", err)
		}

		out, err := tr.sched.Grade(t, q, card, grade, today)
		if errors.Is(err, scheduler.ErrAborted) {
			sum.Aborted = true
			q.Insert(0, card)
			break
		}
		if err != nil {
			tr.saveAfterFailure(ctx, t, log)
			return sum, err
		}
		sum.Graded++
		log.Debug().
			Int("node", int(card.Node)).
			Stringer("grade", grade).
			Stringer("from", out.From).
			Stringer("to", out.To).
			Bool("requeued", out.Requeued).
			Msg("graded")
	}
	sum.Remaining = q.Len()

	if err := save(ctx, tr.store, t, tr.now); err != nil {
		return sum, fmt.Errorf("save %s: %w", name, err)
	}
	log.Info().Int("graded", sum.Graded).Int("remaining", sum.Remaining).Bool("aborted", sum.Aborted).Msg("session ended")
	return sum, nil
}

// saveAfterFailure keeps the grades given before a session failed.
func (tr *Trainer) saveAfterFailure(ctx context.Context, t *repertoire.Tree, log zerolog.Logger) {
	if err := save(ctx, tr.store, t, tr.now); err != nil {
		log.Error().Err(err).Msg("save after failure")
	}
}
