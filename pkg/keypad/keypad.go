package keypad

import (
	"fmt"

	"github.com/golang/glog"
)

// Transport sends parity-marked frames and reads them back.
// *uart.Uart implements it.
type Transport interface {
	WriteAddrMsg(msg []byte) (int, error)
	ReadMsg(n int) ([]byte, error)
}

// KeyFrameLen is the size of a key report on the wire.
const KeyFrameLen = 3

// Sent reports how much of a frame reached the transmitter.
// A short send is not an error: the transport was blocked and the caller
// decides whether to resend.
type Sent struct {
	N   int
	Len int
}

// Complete reports whether the whole frame was sent.
func (s Sent) Complete() bool {
	return s.N == s.Len
}

func (s Sent) String() string {
	return fmt.Sprintf("%d/%d", s.N, s.Len)
}

// Keypad frames keypad messages over a Transport. It keeps no state.
type Keypad struct {
	conn Transport
}

// New creates a Keypad.
func New(conn Transport) *Keypad {
	return &Keypad{conn: conn}
}

// Write appends the checksum to msg, whose first byte is the address,
// and sends it.
func (k *Keypad) Write(msg []byte) (Sent, error) {
	frame := make([]byte, len(msg), len(msg)+1)
	copy(frame, msg)
	frame = append(frame, Checksum(msg))
	glog.V(3).Infof("keypad send % x", frame)
	n, err := k.conn.WriteAddrMsg(frame)
	return Sent{N: n, Len: len(frame)}, err
}

// WriteLcd replaces the display text. Text longer than MaxTextLen is
// rejected with ErrTextTooLong.
func (k *Keypad) WriteLcd(text string) (Sent, error) {
	if len(text) > MaxTextLen {
		return Sent{}, fmt.Errorf("%w: %d bytes", ErrTextTooLong, len(text))
	}
	msg := make([]byte, 0, len(text)+2)
	msg = append(msg, AddrLCD, byte(len(text)))
	return k.Write(append(msg, text...))
}

// ClearLcd blanks the display.
func (k *Keypad) ClearLcd() (Sent, error) {
	return k.WriteLcd(string(LCDClear))
}

// SetLeds sets the zone LEDs and the status LEDs.
func (k *Keypad) SetLeds(zones, leds byte) (Sent, error) {
	return k.Write([]byte{AddrLED, zones, leds})
}

// ReadFrame reads an n-byte frame for addr and returns its payload.
// Nothing arriving is reported as ErrNoData.
func (k *Keypad) ReadFrame(n int, addr byte) ([]byte, error) {
	frame, err := k.conn.ReadMsg(n)
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, ErrNoData
	}
	glog.V(3).Infof("keypad recv % x", frame)
	if len(frame) != n {
		return nil, fmt.Errorf("%w: %d of %d bytes", ErrShortFrame, len(frame), n)
	}
	return DecodeFrame(addr, frame)
}

// ReadKey reads one key report. ok is false when no valid report arrived,
// whether nothing came in or the frame was malformed. err is only set when
// the transport fails.
func (k *Keypad) ReadKey() (key byte, ok bool, err error) {
	payload, err := k.ReadFrame(KeyFrameLen, AddrKey)
	switch {
	case err == nil:
		return payload[0], true, nil
	case IsInvalidFrame(err):
		if err != ErrNoData {
			glog.V(2).Infof("keypad: dropped frame: %v", err)
		}
		return 0, false, nil
	default:
		return 0, false, err
	}
}
