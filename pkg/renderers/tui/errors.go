package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoPowerTypes is returned when the selector has nothing to offer.
	ErrNoPowerTypes = errors.New("tui: no power types to choose from")
)
