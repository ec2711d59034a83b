package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/rules"
	"github.com/rs/zerolog"
)

// Manage commands. Anything else is read as a move.
const (
	CmdBack    = "b"
	CmdDelete  = "d"
	CmdPromote = "p"
	CmdClose   = "c"
	CmdDiscard = "x"
)

// View is what the manage loop shows for the current position.
type View struct {
	Name         string
	Player       domain.Color
	Board        *rules.Board
	PlayerToMove bool
	Moves        []string // prepared replies or expected opponent moves, main line first
	CanGoBack    bool
	Message      string
}

// Editor reads manage commands from the user.
type Editor interface {
	Command(v View) (string, error)
	Ask(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
}

// Manager runs tree editing sessions.
type Manager struct {
	store Store
	now   Clock
	log   zerolog.Logger
}

// NewManager creates a Manager.
func NewManager(store Store, now Clock, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		now:   now,
		log:   log.With().Str("component", "manager").Logger(),
	}
}

// Run lets the user walk and edit repertoire name. The tree is saved when
// the user closes the session or ctx is cancelled, and dropped when they
// discard it. It reports whether the tree was saved.
func (m *Manager) Run(ctx context.Context, name string, ed Editor) (bool, error) {
	t, err := Open(ctx, m.store, name, m.now)
	if err != nil {
		return false, err
	}
	board, err := rules.NewBoard(t.StartFEN)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}

	node := t.Root()
	var msg string
	for {
		if ctx.Err() != nil {
			m.log.Info().Str("repertoire", name).Msg("interrupted")
			return m.close(ctx, t)
		}
		cmd, err := ed.Command(m.view(t, node, board, msg))
		if err != nil {
			return false, err
		}
		msg = ""

		switch cmd {
		case CmdClose:
			return m.close(ctx, t)

		case CmdDiscard:
			m.log.Info().Str("repertoire", name).Msg("changes discarded")
			return false, nil

		case CmdBack:
			n := t.Node(node)
			if n.Parent == repertoire.NoNode {
				msg = "Already at the starting position."
				continue
			}
			if err := board.Undo(); err != nil {
				return false, err
			}
			node = n.Parent

		case CmdDelete:
			msg, err = m.deleteMove(t, node, board, ed)
			if err != nil {
				return false, err
			}

		case CmdPromote:
			msg, err = m.promoteMove(t, node, board, ed)
			if err != nil {
				return false, err
			}

		default:
			if err := board.Apply(cmd); err != nil {
				if errors.Is(err, rules.ErrInvalidMove) {
					msg = fmt.Sprintf("%q is not a legal move here.", cmd)
					continue
				}
				return false, err
			}
			child, err := t.AddMove(node, cmd, m.now())
			if err != nil {
				return false, err
			}
			node = child
		}
	}
}

func (m *Manager) close(ctx context.Context, t *repertoire.Tree) (bool, error) {
	if err := save(ctx, m.store, t, m.now); err != nil {
		return false, fmt.Errorf("save %s: %w", t.Name, err)
	}
	m.log.Info().Str("repertoire", t.Name).Int("nodes", t.Len()).Msg("saved")
	return true, nil
}

func (m *Manager) view(t *repertoire.Tree, id repertoire.NodeID, board *rules.Board, msg string) View {
	n := t.Node(id)
	moves := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		moves = append(moves, t.Node(c).Move)
	}
	return View{
		Name:         t.Name,
		Player:       t.Player,
		Board:        board,
		PlayerToMove: n.PlayerToMove,
		Moves:        moves,
		CanGoBack:    n.Parent != repertoire.NoNode,
		Message:      msg,
	}
}

func (m *Manager) deleteMove(t *repertoire.Tree, id repertoire.NodeID, board *rules.Board, ed Editor) (string, error) {
	move, err := m.askChild(t, id, board, ed, "Delete move:")
	if err != nil || move == "" {
		return "No such move.", err
	}
	ok, err := ed.Confirm(fmt.Sprintf("Permanently delete %s and every line after it?", move))
	if err != nil || !ok {
		return "", err
	}
	if err := t.DeleteMove(id, move); err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted %s.", move), nil
}

func (m *Manager) promoteMove(t *repertoire.Tree, id repertoire.NodeID, board *rules.Board, ed Editor) (string, error) {
	move, err := m.askChild(t, id, board, ed, "Promote move:")
	if err != nil || move == "" {
		return "No such move.", err
	}
	if err := t.PromoteMove(id, move); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s is now the main line.", move), nil
}

// askChild reads a move and returns it if it is legal and in the tree.
func (m *Manager) askChild(t *repertoire.Tree, id repertoire.NodeID, board *rules.Board, ed Editor, prompt string) (string, error) {
	move, err := ed.Ask(prompt)
	if err != nil {
		return "", err
	}
	if !board.IsLegal(move) {
		return "", nil
	}
	if _, ok := t.Child(id, move); !ok {
		return "", nil
	}
	return move, nil
}
