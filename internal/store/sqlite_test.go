package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var today = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "rep.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTree(t *testing.T, name string) *repertoire.Tree {
	t.Helper()
	tr := repertoire.New(name, domain.Black, startFEN, domain.White, today)
	lines := [][]string{
		{"e2e4", "c7c5", "g1f3", "d7d6"},
		{"e2e4", "c7c5", "b1c3", "b8c6"},
		{"d2d4", "g8f6"},
	}
	for _, line := range lines {
		id := tr.Root()
		for _, m := range line {
			var err error
			id, err = tr.AddMove(id, m, today)
			require.NoError(t, err)
		}
	}
	tr.Normalize(today)
	tr.Counter.Count = 2
	q := tr.BuildQueue(today)
	c, ok := q.Pop()
	require.True(t, ok)
	ts := tr.Node(c.Node).Training
	ts.Status = domain.Review
	ts.LastDate = domain.AddDays(today, -3)
	ts.DueDate = domain.AddDays(today, 9)
	return tr
}

func TestCreateOpenRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tr := sampleTree(t, "najdorf")

	require.NoError(t, s.Create(ctx, tr))

	got, err := s.Open(ctx, "najdorf")
	require.NoError(t, err)

	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, tr.Name, got.Name)
	assert.Equal(t, domain.Black, got.Player)
	assert.Equal(t, tr.StartFEN, got.StartFEN)
	assert.Equal(t, tr.LearningBudget, got.LearningBudget)
	assert.Equal(t, tr.Counter, got.Counter)
	assert.Equal(t, tr.Records(), got.Records())
}

func TestSaveReplacesTree(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tr := sampleTree(t, "najdorf")
	require.NoError(t, s.Create(ctx, tr))

	e4, ok := tr.Child(tr.Root(), "e2e4")
	require.True(t, ok)
	require.NoError(t, tr.DeleteMove(e4, "c7c5"))
	_, err := tr.AddMove(e4, "e7e5", today)
	require.NoError(t, err)
	tr.LearningBudget = 4
	tr.Counter = domain.DailyCounter{Date: domain.AddDays(today, 1), Count: -1}

	require.NoError(t, s.Save(ctx, tr))

	got, err := s.Open(ctx, "najdorf")
	require.NoError(t, err)
	assert.Equal(t, tr.Records(), got.Records())
	assert.Equal(t, 4, got.LearningBudget)
	assert.Equal(t, tr.Counter, got.Counter)
}

func TestSaveUnknown(t *testing.T) {
	s := newStore(t)
	err := s.Save(context.Background(), sampleTree(t, "ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDuplicateName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, sampleTree(t, "najdorf")))

	err := s.Create(ctx, sampleTree(t, "najdorf"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	ok, err := s.Exists(ctx, "najdorf")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListAndDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, name := range []string{"london", "caro", "najdorf"} {
		require.NoError(t, s.Create(ctx, sampleTree(t, name)))
	}

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"caro", "london", "najdorf"}, names)

	require.NoError(t, s.Delete(ctx, "london"))
	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"caro", "najdorf"}, names)

	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n))
	assert.Equal(t, 2*sampleTree(t, "x").Len(), n)

	assert.ErrorIs(t, s.Delete(ctx, "london"), ErrNotFound)
	_, err = s.Open(ctx, "london")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenCorrupt(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"bad status", "UPDATE nodes SET status = 'forgotten' WHERE status IS NOT NULL"},
		{"bad date", "UPDATE nodes SET due_date = 'tomorrow' WHERE status IS NOT NULL"},
		{"orphan", "UPDATE nodes SET parent = 99 WHERE idx = 3"},
		{"missing root", "DELETE FROM nodes WHERE idx = 0"},
		{"training on opponent move", "UPDATE nodes SET status = 'new', last_date = '2025-09-01', due_date = '2025-09-01' WHERE idx = 1"},
		{"bad counter date", "UPDATE repertoires SET counter_date = ''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			require.NoError(t, s.Create(ctx, sampleTree(t, "najdorf")))
			_, err := s.db.Exec(tt.sql)
			require.NoError(t, err)

			_, err = s.Open(ctx, "najdorf")
			assert.ErrorIs(t, err, ErrCorruptStore)
		})
	}
}
