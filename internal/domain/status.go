package domain

import (
	"encoding"
	"fmt"
)

// Status is the spaced-repetition stage of a training position.
type Status int

const (
	New        Status = iota + 1 // Activated, never presented.
	FirstStep                    // Presented at least once, being learned.
	SecondStep                   // Recalled once, one more step before review.
	Review                       // Learned; scheduled by due date.
	Inactive                     // Outside the daily learning budget.
)

var (
	statusNames = [...]string{
		New:        "new",
		FirstStep:  "first_step",
		SecondStep: "second_step",
		Review:     "review",
		Inactive:   "inactive",
	}
	statusByName = map[string]Status{
		"new":         New,
		"first_step":  FirstStep,
		"second_step": SecondStep,
		"review":      Review,
		"inactive":    Inactive,
	}
)

var (
	_ fmt.Stringer             = Status(0)
	_ encoding.TextMarshaler   = Status(0)
	_ encoding.TextUnmarshaler = (*Status)(nil)
)

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	return s >= New && s <= Inactive
}

// IsLearning reports whether s counts against the learning budget.
func (s Status) IsLearning() bool {
	return s == New || s == FirstStep || s == SecondStep
}

func (s Status) String() string {
	if s.IsValid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, ok := statusByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
	*s = v
	return nil
}
