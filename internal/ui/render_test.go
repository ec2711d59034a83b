package ui

import (
	"testing"

	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/rules"
	"github.com/pbaille/rep/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmpty(t *testing.T) {
	assert.Contains(t, List(nil), "No repertoires yet")
}

func TestListRows(t *testing.T) {
	out := List([]ListRow{
		{Name: "sicilian", Player: domain.Black, Counts: repertoire.Counts{Review: 3, Reachable: 4, Total: 6}},
		{Name: "london", Player: domain.White},
	})

	assert.Contains(t, out, "sicilian")
	assert.Contains(t, out, "black")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "london")
	assert.Contains(t, out, "n/a")
}

func TestOverviewStatus(t *testing.T) {
	tests := []struct {
		name   string
		counts repertoire.Counts
		want   string
	}{
		{"nothing waiting", repertoire.Counts{Review: 2}, "up to date"},
		{"new positions", repertoire.Counts{New: 1}, "training available"},
		{"due reviews", repertoire.Counts{Review: 2, Due: 1}, "training available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Overview("e4", domain.White, tt.counts)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "In review")
			assert.Contains(t, out, "Reachable")
		})
	}
}

func TestHeader(t *testing.T) {
	c := repertoire.Counts{New: 1, FirstStep: 2, SecondStep: 3, Due: 4}
	assert.Equal(t, "new 1  first 2  second 3  due 4", Header(c))
}

func TestSolution(t *testing.T) {
	assert.NotContains(t, Solution("g1f3", "g1f3"), "solution:")
	assert.Contains(t, Solution("g1f3", "b1c3"), "solution:")
}

func TestCard(t *testing.T) {
	card := repertoire.Card{StartFEN: rules.StartFEN, Line: []string{"e2e4"}, Problem: "c7c5", Solution: "g1f3"}
	board, err := rules.Replay(card.StartFEN, "e2e4", "c7c5")
	require.NoError(t, err)

	out := Card(card, board)

	assert.Contains(t, out, string(IconArrow))
	assert.Contains(t, out, "Opponent played")
	assert.Contains(t, out, "c7c5")
	assert.NotContains(t, out, "g1f3")
}

func TestView(t *testing.T) {
	board, err := rules.Replay(rules.StartFEN, "e2e4")
	require.NoError(t, err)

	out := View(session.View{
		Name:      "e4",
		Player:    domain.White,
		Board:     board,
		Moves:     []string{"e7e5", "c7c5"},
		CanGoBack: true,
		Message:   "Deleted d7d5.",
	})

	assert.Contains(t, out, "Black to move")
	assert.Contains(t, out, "Opponent moves")
	assert.Contains(t, out, "c7c5")
	assert.Contains(t, out, "Deleted d7d5.")
	assert.Contains(t, out, "back")
	assert.Contains(t, out, string(IconBullet))
}

func TestViewEmptyRoot(t *testing.T) {
	board, err := rules.NewBoard(rules.StartFEN)
	require.NoError(t, err)

	out := View(session.View{Name: "e4", Player: domain.White, Board: board, PlayerToMove: true})

	assert.Contains(t, out, "White to move")
	assert.Contains(t, out, "No moves yet.")
	assert.NotContains(t, out, "promote")
	assert.NotContains(t, out, "b back")
}
