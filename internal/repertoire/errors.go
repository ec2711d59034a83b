package repertoire

import "errors"

var (
	ErrNodeNotFound = errors.New("repertoire: node not found")
	ErrMoveNotFound = errors.New("repertoire: move not in repertoire")
	ErrInvalidTree  = errors.New("repertoire: invalid tree")
)
