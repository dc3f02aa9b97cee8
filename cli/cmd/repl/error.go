package repl

import "errors"

// Sentinel errors.
var (
	// ErrOutOfBounds reports a history index outside the stored entries.
	ErrOutOfBounds = errors.New("index out of range")

	// ErrEditDeclined reports that the user declined to re-edit after a
	// template parse error. The previous template stays in effect.
	ErrEditDeclined = errors.New("decline edit")
)
