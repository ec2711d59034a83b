package rules

import (
	"testing"

	"github.com/pbaille/rep/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardStart(t *testing.T) {
	b, err := NewBoard(StartFEN)
	require.NoError(t, err)

	assert.Equal(t, domain.White, b.Turn())
	assert.Len(t, b.LegalMoves(), 20)
	assert.Contains(t, b.LegalMoves(), "e2e4")
	assert.Equal(t, 0, b.Ply())
}

func TestNewBoardInvalidFEN(t *testing.T) {
	_, err := NewBoard("not a position")
	assert.ErrorIs(t, err, ErrInvalidFEN)
}

func TestApplyAndUndo(t *testing.T) {
	b, err := NewBoard(StartFEN)
	require.NoError(t, err)

	require.NoError(t, b.Apply("e2e4"))
	assert.Equal(t, domain.Black, b.Turn())
	assert.Equal(t, 1, b.Ply())
	assert.True(t, b.IsLegal("e7e5"))

	require.NoError(t, b.Undo())
	assert.Equal(t, domain.White, b.Turn())
	assert.ErrorIs(t, b.Undo(), ErrNoHistory)
}

func TestApplyIllegal(t *testing.T) {
	b, err := NewBoard(StartFEN)
	require.NoError(t, err)

	for _, m := range []string{"e2e5", "e7e5", "", "zz"} {
		assert.ErrorIs(t, b.Apply(m), ErrInvalidMove, m)
	}
	assert.Equal(t, 0, b.Ply())
}

func TestReplayRoundTripsFEN(t *testing.T) {
	b, err := Replay(StartFEN, "e2e4", "c7c5", "g1f3")
	require.NoError(t, err)
	assert.Equal(t, domain.Black, b.Turn())

	again, err := NewBoard(b.FEN())
	require.NoError(t, err)
	assert.Equal(t, b.FEN(), again.FEN())
	assert.Equal(t, b.LegalMoves(), again.LegalMoves())
}

func TestReplayStopsOnIllegalMove(t *testing.T) {
	_, err := Replay(StartFEN, "e2e4", "e2e4")
	assert.ErrorIs(t, err, ErrInvalidMove)
}
