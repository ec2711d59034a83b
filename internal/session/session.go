// Package session runs the interactive loops over one repertoire: practice
// and tree management. Each loop owns the tree it opens until it returns.
package session

import (
	"context"
	"time"

	"github.com/pbaille/rep/internal/repertoire"
)

// Store loads and persists repertoires.
type Store interface {
	Open(ctx context.Context, name string) (*repertoire.Tree, error)
	Save(ctx context.Context, t *repertoire.Tree) error
}

// Clock returns the current time.
type Clock func() time.Time

// Open loads a repertoire and brings its training states up to date for
// the current day.
func Open(ctx context.Context, s Store, name string, now Clock) (*repertoire.Tree, error) {
	t, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	t.Normalize(now())
	return t, nil
}

// save normalizes the tree once more, so edits and grades made during the
// session are reflected in the budget, and persists it. It runs even when
// ctx is already cancelled.
func save(ctx context.Context, s Store, t *repertoire.Tree, now Clock) error {
	t.Normalize(now())
	return s.Save(context.WithoutCancel(ctx), t)
}
