package keypad

import "fmt"

// MaxTextLen is the longest LCD text a single frame carries.
const MaxTextLen = 0xff

// Checksum is the sum of all bytes modulo 256.
func Checksum(p []byte) (sum byte) {
	for _, b := range p {
		sum += b
	}
	return
}

// EncodeFrame builds addr ++ payload ++ checksum.
func EncodeFrame(addr byte, payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+2)
	frame = append(frame, addr)
	frame = append(frame, payload...)
	return append(frame, Checksum(frame))
}

// DecodeFrame validates a frame for addr and returns its payload.
func DecodeFrame(addr byte, frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	if frame[0] != addr {
		return nil, fmt.Errorf("%w: %q, want %q", ErrBadAddress, frame[0], addr)
	}
	last := len(frame) - 1
	if sum := Checksum(frame[:last]); sum != frame[last] {
		return nil, fmt.Errorf("%w: got %#02x, want %#02x", ErrBadChecksum, frame[last], sum)
	}
	return frame[1:last], nil
}
