// Package rules adapts a chess engine to the few operations the trainer
// needs: legal moves in UCI notation, applying and taking back moves, and
// FEN round-tripping.
package rules

import (
	"errors"
	"fmt"
	"slices"

	"github.com/notnil/chess"
	"github.com/pbaille/rep/internal/domain"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var (
	ErrInvalidMove = errors.New("rules: invalid move")
	ErrInvalidFEN  = errors.New("rules: invalid position")
	ErrNoHistory   = errors.New("rules: no move to take back")
)

var notation = chess.UCINotation{}

// Board is a position with the history of moves applied to it.
type Board struct {
	history []*chess.Position
}

// NewBoard returns a board set up from fen.
func NewBoard(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return &Board{history: []*chess.Position{chess.NewGame(opt).Position()}}, nil
}

// Replay sets up fen and plays line on it.
func Replay(fen string, line ...string) (*Board, error) {
	b, err := NewBoard(fen)
	if err != nil {
		return nil, err
	}
	for _, m := range line {
		if err := b.Apply(m); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Board) position() *chess.Position {
	return b.history[len(b.history)-1]
}

// LegalMoves returns the legal moves in UCI notation.
func (b *Board) LegalMoves() []string {
	pos := b.position()
	moves := pos.ValidMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, notation.Encode(pos, m))
	}
	slices.Sort(out)
	return out
}

// IsLegal reports whether uci is a legal move in the current position.
func (b *Board) IsLegal(uci string) bool {
	_, ok := b.find(uci)
	return ok
}

func (b *Board) find(uci string) (*chess.Move, bool) {
	pos := b.position()
	for _, m := range pos.ValidMoves() {
		if notation.Encode(pos, m) == uci {
			return m, true
		}
	}
	return nil, false
}

// Apply plays uci.
func (b *Board) Apply(uci string) error {
	m, ok := b.find(uci)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMove, uci)
	}
	b.history = append(b.history, b.position().Update(m))
	return nil
}

// Undo takes back the last move.
func (b *Board) Undo() error {
	if len(b.history) == 1 {
		return ErrNoHistory
	}
	b.history = b.history[:len(b.history)-1]
	return nil
}

// Ply is the number of moves applied since the board was set up.
func (b *Board) Ply() int {
	return len(b.history) - 1
}

// Turn returns the side to move.
func (b *Board) Turn() domain.Color {
	if b.position().Turn() == chess.White {
		return domain.White
	}
	return domain.Black
}

// FEN encodes the current position.
func (b *Board) FEN() string {
	return b.position().String()
}

// Draw renders the board as text.
func (b *Board) Draw() string {
	return b.position().Board().Draw()
}
