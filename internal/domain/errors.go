package domain

import "errors"

var (
	ErrInvalidStatus = errors.New("domain: invalid status")
	ErrInvalidGrade  = errors.New("domain: invalid grade")
	ErrInvalidColor  = errors.New("domain: invalid color")
)
