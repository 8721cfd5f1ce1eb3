package uart

import (
	"fmt"
)

// Parity is the parity mode of the line.
type Parity byte

// Parity modes.
const (
	ParityNone  Parity = 'N'
	ParityOdd   Parity = 'O'
	ParityEven  Parity = 'E'
	ParityMark  Parity = 'M' // parity bit is always 1
	ParitySpace Parity = 'S' // parity bit is always 0
)

// IsValid checks if it's a known parity mode.
func (p Parity) IsValid() bool {
	switch p {
	case ParityNone, ParityOdd, ParityEven, ParityMark, ParitySpace:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (p Parity) String() string {
	return string(rune(p))
}

// Config is the line configuration applied by Configure.
type Config struct {
	Baud   int
	Bits   int
	Parity Parity
	Stops  int

	// EnableRx enables the receiver. When false the chip ignores the line.
	EnableRx bool
	// AutoRS485 enables 9-bit mode address detection (datasheet 9.3).
	// Works with 8 bits and space parity.
	AutoRS485 bool
	// Multidrop enables special character matching of MultidropAddr
	// (datasheet 9.3.2).
	Multidrop     bool
	MultidropAddr byte

	// Debug traces every register access.
	Debug bool
}

// DefaultConfig returns 1200 baud 8N1 with the receiver enabled.
func DefaultConfig() Config {
	return Config{
		Baud:     1200,
		Bits:     8,
		Parity:   ParityNone,
		Stops:    1,
		EnableRx: true,
	}
}

// Validate checks the configuration is supported by the chip.
func (c Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud %d", ErrInvalidConfig, c.Baud)
	}
	if c.Bits < 5 || c.Bits > 8 {
		return fmt.Errorf("%w: %d data bits", ErrInvalidConfig, c.Bits)
	}
	if !c.Parity.IsValid() {
		return fmt.Errorf("%w: parity %q", ErrInvalidConfig, byte(c.Parity))
	}
	if c.Stops != 1 && c.Stops != 2 {
		return fmt.Errorf("%w: %d stop bits", ErrInvalidConfig, c.Stops)
	}
	return nil
}

// LCR builds the line control register value for the configuration.
func (c Config) LCR() byte {
	var lcr byte
	if c.Parity == ParityMark || c.Parity == ParitySpace {
		lcr |= LCRForceParity
	}
	if c.Parity == ParityEven || c.Parity == ParitySpace {
		lcr |= LCREvenParity
	}
	if c.Parity != ParityNone {
		lcr |= LCREnableParity
	}
	if c.Stops > 1 {
		lcr |= LCRStopBit
	}
	lcr |= byte(c.Bits-5) & LCRLengthMask
	return lcr
}

// Divisor computes the baud rate divisor for the crystal frequency.
// The division truncates, so rates that don't divide xtal/16 evenly run
// slightly fast.
func Divisor(xtal, baud int) int {
	return xtal / 16 / baud
}

// String implements fmt.Stringer, e.g. "1200 8O1".
func (c Config) String() string {
	return fmt.Sprintf("%d %d%s%d", c.Baud, c.Bits, c.Parity, c.Stops)
}
