package store

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

// snapshot is the portable form of a repertoire, written by Export.
type snapshot struct {
	Version        int                 `msgpack:"version"`
	Name           string              `msgpack:"name"`
	Player         string              `msgpack:"player"`
	StartFEN       string              `msgpack:"start_fen"`
	LearningBudget int                 `msgpack:"learning_budget"`
	Counter        domain.DailyCounter `msgpack:"counter"`
	CreatedAt      time.Time           `msgpack:"created_at"`
	Records        []repertoire.Record `msgpack:"records"`
}

// Export writes t to w as a msgpack snapshot.
func Export(w io.Writer, t *repertoire.Tree) error {
	snap := snapshot{
		Version:        snapshotVersion,
		Name:           t.Name,
		Player:         t.Player.String(),
		StartFEN:       t.StartFEN,
		LearningBudget: t.LearningBudget,
		Counter:        t.Counter,
		CreatedAt:      t.CreatedAt,
		Records:        t.Records(),
	}
	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Import reads a snapshot written by Export. The repertoire gets a fresh ID;
// a non-empty name replaces the stored one.
func Import(r io.Reader, name string) (*repertoire.Tree, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", ErrCorruptStore, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d", ErrCorruptStore, snap.Version)
	}
	player, err := domain.ParseColor(snap.Player)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if name == "" {
		name = snap.Name
	}

	meta := repertoire.Meta{
		ID:             uuid.New().String(),
		Name:           name,
		Player:         player,
		StartFEN:       snap.StartFEN,
		LearningBudget: snap.LearningBudget,
		Counter:        domain.DailyCounter{Date: domain.Day(snap.Counter.Date.UTC()), Count: snap.Counter.Count},
		CreatedAt:      snap.CreatedAt,
	}
	// msgpack decodes timestamps in the local zone; dates are UTC midnights
	for _, rec := range snap.Records {
		if ts := rec.Training; ts != nil {
			ts.LastDate = domain.Day(ts.LastDate.UTC())
			ts.DueDate = domain.Day(ts.DueDate.UTC())
		}
	}
	t, err := repertoire.Restore(meta, snap.Records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	return t, nil
}
