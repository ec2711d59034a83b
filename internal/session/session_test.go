package session

import (
	"context"
	"testing"
	"time"

	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/store"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var now = time.Date(2025, 4, 2, 18, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

type stored struct {
	meta    repertoire.Meta
	records []repertoire.Record
}

// memStore keeps flattened copies, so a tree handed to a session is never
// the one a test inspects afterwards.
type memStore struct {
	trees map[string]stored
	saves int
}

func newMemStore() *memStore {
	return &memStore{trees: map[string]stored{}}
}

func (m *memStore) put(t *repertoire.Tree) {
	m.trees[t.Name] = stored{meta: t.Meta, records: t.Records()}
}

func (m *memStore) Open(_ context.Context, name string) (*repertoire.Tree, error) {
	s, ok := m.trees[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return repertoire.Restore(s.meta, s.records)
}

func (m *memStore) Save(_ context.Context, t *repertoire.Tree) error {
	m.saves++
	m.put(t)
	return nil
}

func (m *memStore) get(t *testing.T, name string) *repertoire.Tree {
	t.Helper()
	tr, err := m.Open(context.Background(), name)
	require.NoError(t, err)
	return tr
}

func build(t *testing.T, name string, lines ...[]string) *repertoire.Tree {
	t.Helper()
	tr := repertoire.New(name, domain.White, startFEN, domain.White, now)
	for _, line := range lines {
		id := tr.Root()
		for _, mv := range line {
			var err error
			id, err = tr.AddMove(id, mv, now)
			require.NoError(t, err)
		}
	}
	return tr
}

func nodeAt(t *testing.T, tr *repertoire.Tree, line ...string) *repertoire.Node {
	t.Helper()
	id := tr.Root()
	for _, mv := range line {
		var ok bool
		id, ok = tr.Child(id, mv)
		require.True(t, ok, "missing %v", line)
	}
	return tr.Node(id)
}
