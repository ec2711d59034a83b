package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pbaille/rep/internal/domain"
	"github.com/pbaille/rep/internal/repertoire"
	"github.com/pbaille/rep/internal/rules"
	"github.com/pbaille/rep/internal/session"
)

// ListRow is one repertoire of the list overview.
type ListRow struct {
	Name   string
	Player domain.Color
	Counts repertoire.Counts
}

// List renders the overview of every repertoire.
func List(rows []ListRow) string {
	if len(rows) == 0 {
		return Styles.Muted.Render("No repertoires yet. Use 'rep new' to create one.")
	}

	width := len("name")
	for _, r := range rows {
		width = max(width, len(r.Name))
	}
	lines := []string{Styles.Bold.Render(fmt.Sprintf("%-*s  %-5s  %8s  %7s  %7s  %5s",
		width, "name", "color", "coverage", "waiting", "learned", "total"))}
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %-5s  %8s  %7d  %7d  %5d",
			width, r.Name, r.Player, coverage(r.Counts), r.Counts.Waiting(), r.Counts.Review, r.Counts.Total)
		if r.Counts.Waiting() > 0 {
			line = Styles.Highlight.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func coverage(c repertoire.Counts) string {
	pct, ok := c.Coverage()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", pct)
}

// Overview renders the training state of one repertoire.
func Overview(name string, player domain.Color, c repertoire.Counts) string {
	status := Styles.Success.Render("up to date")
	if c.Waiting() > 0 {
		status = Styles.Highlight.Render("training available")
	}
	rows := [][2]string{
		{"New", fmt.Sprint(c.New)},
		{"Learning", fmt.Sprint(c.Learning())},
		{"Due", fmt.Sprint(c.Due)},
		{"In review", fmt.Sprint(c.Review)},
		{"Inactive", fmt.Sprint(c.Inactive)},
		{"Reachable", fmt.Sprint(c.Reachable)},
		{"Total", fmt.Sprint(c.Total)},
	}
	body := []string{
		Styles.Title.Render(name) + " " + Styles.Muted.Render("("+player.String()+")"),
		status,
		"",
	}
	for _, r := range rows {
		body = append(body, Styles.Subtitle.Render(fmt.Sprintf("%-10s", r[0]))+" "+r[1])
	}
	return Styles.Box.Render(strings.Join(body, "\n"))
}

// Header is the one-line count summary shown above each card.
func Header(c repertoire.Counts) string {
	return fmt.Sprintf("new %d  first %d  second %d  due %d", c.New, c.FirstStep, c.SecondStep, c.Due)
}

// Card renders the problem of a card on board, the position after the
// opponent's move.
func Card(card repertoire.Card, board *rules.Board) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Styles.Board.Render(board.Draw()),
		fmt.Sprintf("%s Opponent played %s", IconArrow.Render(), Styles.Bold.Render(card.Problem)),
	)
}

// Solution reveals the prepared reply and whether guess matched it.
func Solution(solution, guess string) string {
	if guess == solution {
		return IconSuccess.Render() + " " + Styles.Bold.Render(solution)
	}
	return IconError.Render() + " solution: " + Styles.Bold.Render(solution)
}

// View renders a position of the manage loop.
func View(v session.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Styles.Title.Render(v.Name), Styles.Muted.Render("("+v.Player.String()+")"))
	b.WriteString(Styles.Board.Render(v.Board.Draw()))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s to move\n", capitalize(v.Board.Turn().String()))

	label := "Opponent moves"
	if v.PlayerToMove {
		label = "Prepared replies"
	}
	switch len(v.Moves) {
	case 0:
		b.WriteString(Styles.Muted.Render("No moves yet."))
	default:
		moves := append([]string{Styles.Highlight.Render(v.Moves[0])}, v.Moves[1:]...)
		fmt.Fprintf(&b, "%s: %s", label, strings.Join(moves, " "))
	}
	b.WriteString("\n")

	if v.Message != "" {
		b.WriteString(Styles.Warning.Render(v.Message))
		b.WriteString("\n")
	}
	help := []string{"move (uci)"}
	if v.CanGoBack {
		help = append(help, session.CmdBack+" back")
	}
	if len(v.Moves) > 0 {
		help = append(help, session.CmdDelete+" delete", session.CmdPromote+" promote")
	}
	help = append(help, session.CmdClose+" save and close", session.CmdDiscard+" discard")
	b.WriteString(Styles.Muted.Render(strings.Join(help, " "+string(IconBullet)+" ")))
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
