package uart

import "errors"

var (
	// ErrInvalidConfig indicates a line configuration the chip can't do.
	ErrInvalidConfig = errors.New("invalid uart config")
	// ErrNotConfigured indicates an operation that needs Configure first.
	ErrNotConfigured = errors.New("uart not configured")
)
