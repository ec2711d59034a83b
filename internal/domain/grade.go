package domain

import (
	"encoding"
	"fmt"
)

// Grade is the user's assessment of how well a position was recalled.
type Grade int

const (
	Easy  Grade = iota + 1 // Recalled without effort.
	OK                     // Recalled.
	Hard                   // Recalled with difficulty, or not at all.
	Abort                  // End the session without grading.
)

var (
	gradeNames  = [...]string{Easy: "easy", OK: "ok", Hard: "hard", Abort: "abort"}
	gradeByName = map[string]Grade{
		"easy":  Easy,
		"ok":    OK,
		"hard":  Hard,
		"abort": Abort,
	}
)

var (
	_ fmt.Stringer             = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// IsValid reports whether g is one of the defined grades.
func (g Grade) IsValid() bool {
	return g >= Easy && g <= Abort
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, ok := gradeByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidGrade, text)
	}
	*g = v
	return nil
}
