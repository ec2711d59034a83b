package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// Color is the side a repertoire is played from.
type Color bool

const (
	White Color = true
	Black Color = false
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return Black, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// TrainingState holds the schedule of one drillable position
type TrainingState struct {
	Status   Status    `json:"status" msgpack:"status"`
	LastDate time.Time `json:"last_date" msgpack:"last_date"`
	DueDate  time.Time `json:"due_date" msgpack:"due_date"`
}

// NewTrainingState returns an inactive state created on the given day.
func NewTrainingState(today time.Time) *TrainingState {
	d := Day(today)
	return &TrainingState{Status: Inactive, LastDate: d, DueDate: d}
}

// IsDue reports whether a review position is due on the given day.
func (ts *TrainingState) IsDue(today time.Time) bool {
	return ts.Status == Review && !ts.DueDate.After(Day(today))
}

// Gap is the interval in days of the previous review.
func (ts *TrainingState) Gap() int {
	return DaysBetween(ts.LastDate, ts.DueDate)
}

// DailyCounter counts positions that left New training since Date.
type DailyCounter struct {
	Date  time.Time `json:"date" msgpack:"date"`
	Count int       `json:"count" msgpack:"count"`
}

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after d.
func AddDays(d time.Time, n int) time.Time {
	return Day(d).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// ParseDate parses a date stored with DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
