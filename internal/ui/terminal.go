package ui

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/rules"
	"github.com/pbaille/rep/internal/session"
)

var (
	_ session.Presenter = (*Terminal)(nil)
	_ session.Editor    = (*Terminal)(nil)
)

// Terminal asks the user through huh prompts and prints to out.
type Terminal struct {
	out        io.Writer
	accessible bool
}

// NewTerminal creates a Terminal. Accessible mode replaces the interactive
// widgets with plain line prompts.
func NewTerminal(out io.Writer, accessible bool) *Terminal {
	return &Terminal{out: out, accessible: accessible}
}

func (t *Terminal) run(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithAccessible(t.accessible).
		WithShowHelp(false).
		Run()
}

func (t *Terminal) input(title, description string) (string, error) {
	var s string
	err := t.run(huh.NewInput().Title(title).Description(description).Value(&s))
	return strings.TrimSpace(s), err
}

// Println prints a rendered block.
func (t *Terminal) Println(s string) {
	fmt.Fprintln(t.out, s)
}

// Present shows the problem of card, reveals the solution and reads a grade.
// Closing at any prompt aborts.
func (t *Terminal) Present(card repertoire.Card, status domain.Status, counts repertoire.Counts) (domain.Grade, error) {
	board, err := rules.Replay(card.StartFEN, append(slices.Clone(card.Line), card.Problem)...)
	if err != nil {
		return 0, fmt.Errorf("replay card %d: %w", card.Node, err)
	}
	t.Println(Styles.Muted.Render(Header(counts)))
	t.Println(Card(card, board))

	title := "Your move?"
	if status == domain.New {
		title = "New position. Guess the move"
	}
	guess, err := t.input(title, "uci notation, "+session.CmdClose+" to close")
	if err != nil {
		return abortOn(err)
	}
	if guess == session.CmdClose {
		return domain.Abort, nil
	}
	t.Println(Solution(card.Solution, guess))

	if status == domain.New {
		next := "continue"
		err := t.run(huh.NewSelect[string]().
			Options(huh.NewOption("continue", "continue"), huh.NewOption("close", "close")).
			Value(&next))
		if err != nil {
			return abortOn(err)
		}
		if next == "close" {
			return domain.Abort, nil
		}
		return domain.Easy, nil
	}

	grade := domain.OK
	err = t.run(huh.NewSelect[domain.Grade]().
		Title("How was it?").
		Options(
			huh.NewOption("hard", domain.Hard),
			huh.NewOption("ok", domain.OK),
			huh.NewOption("easy", domain.Easy),
			huh.NewOption("close", domain.Abort),
		).
		Value(&grade))
	if err != nil {
		return abortOn(err)
	}
	return grade, nil
}

func abortOn(err error) (domain.Grade, error) {
	if errors.Is(err, huh.ErrUserAborted) {
		return domain.Abort, nil
	}
	return 0, err
}

// Command shows the manage view and reads a move or command.
func (t *Terminal) Command(v session.View) (string, error) {
	t.Println(View(v))
	cmd, err := t.input("Move or command", "")
	if errors.Is(err, huh.ErrUserAborted) {
		return session.CmdClose, nil
	}
	return cmd, err
}

// Ask reads one line.
func (t *Terminal) Ask(prompt string) (string, error) {
	return t.input(prompt, "")
}

// Confirm asks a yes/no question. Interrupting answers no.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	var ok bool
	err := t.run(huh.NewConfirm().Title(prompt).Affirmative("Yes").Negative("No").Value(&ok))
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// NewRepertoire asks for the name and color of a new repertoire, starting
// from name. taken reports whether a name is already in use.
func (t *Terminal) NewRepertoire(name string, taken func(name string) (bool, error)) (string, domain.Color, error) {
	color := domain.White
	err := t.run(
		nameInput(&name, taken),
		huh.NewSelect[domain.Color]().
			Title("Color").
			Options(huh.NewOption("white", domain.White), huh.NewOption("black", domain.Black)).
			Value(&color),
	)
	return strings.TrimSpace(name), color, err
}

func nameInput(name *string, taken func(string) (bool, error)) *huh.Input {
	return huh.NewInput().
		Title("Name").
		Value(name).
		Validate(validateName(taken))
}

func validateName(taken func(string) (bool, error)) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New("name is required")
		}
		exists, err := taken(s)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%q already exists", s)
		}
		return nil
	}
}

// PickStart lets the user play moves from fen until they accept the
// position, and returns the accepted position's FEN.
func (t *Terminal) PickStart(fen string) (string, error) {
	board, err := rules.NewBoard(fen)
	if err != nil {
		return "", err
	}
	for {
		t.Println(Styles.Board.Render(board.Draw()))
		move, err := t.input("Starting position", "play a move, "+session.CmdBack+" to take back, empty to accept")
		if err != nil {
			return "", err
		}
		switch move {
		case "":
			return board.FEN(), nil
		case session.CmdBack:
			if err := board.Undo(); err != nil {
				t.Println(Styles.Warning.Render("Already at the initial position."))
			}
		default:
			if err := board.Apply(move); err != nil {
				t.Println(Styles.Warning.Render(fmt.Sprintf("%q is not a legal move here.", move)))
			}
		}
	}
}
