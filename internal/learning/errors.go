package learning

import "errors"

// Sentinel errors shared by the scheduling packages.
// Use errors.Is to check: errors.Is(err, learning.ErrNotFound)
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)
