package keypad

import "fmt"

// Bus addresses.
const (
	AddrKey byte = 'K'
	AddrLED byte = 'P'
	AddrLCD byte = 'L'
)

// Key codes reported by the keypad. Digits are reported as '0'..'9'.
const (
	KeyBell byte = ':'
	KeyOmit byte = ';'
	KeyX    byte = '<'
	KeyP    byte = '='
	KeyY    byte = '>'
	KeyUp   byte = '?'
	KeySOS  byte = 0xaa
)

// LCD control characters.
const (
	LCDClear byte = '\f'
	LCDCmd   byte = 0x04
	LCDLine1 byte = 0x80
	LCDLine2 byte = 0xc0
)

// LED bits.
const (
	LEDUnset  byte = 0x01
	LEDTamper byte = 0x00
	LEDSOS    byte = 0x00
	LEDPower  byte = 0x0a
)

var keyNames = map[byte]string{
	KeyBell: "bell",
	KeyOmit: "omit",
	KeyX:    "x",
	KeyP:    "p",
	KeyY:    "y",
	KeyUp:   "up",
	KeySOS:  "sos",
}

// KeyName returns a printable name of a key code.
func KeyName(code byte) string {
	if code >= '0' && code <= '9' {
		return string(rune(code))
	}
	if name, ok := keyNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", code)
}
