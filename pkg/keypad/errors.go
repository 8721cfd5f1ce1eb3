package keypad

import "errors"

var (
	// ErrTextTooLong indicates LCD text doesn't fit the length byte.
	ErrTextTooLong = errors.New("lcd text too long")
	// ErrNoData indicates nothing arrived from the line.
	ErrNoData = errors.New("no data")
	// ErrShortFrame indicates fewer bytes than a frame needs arrived.
	ErrShortFrame = errors.New("short frame")
	// ErrBadAddress indicates the frame is for another address.
	ErrBadAddress = errors.New("unexpected address")
	// ErrBadChecksum indicates the frame checksum doesn't match.
	ErrBadChecksum = errors.New("checksum mismatch")
)

// IsInvalidFrame reports whether err means no valid frame was read, as
// opposed to a failure of the transport.
func IsInvalidFrame(err error) bool {
	return errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrShortFrame) ||
		errors.Is(err, ErrBadAddress) ||
		errors.Is(err, ErrBadChecksum)
}
