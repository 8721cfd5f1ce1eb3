package uart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLCR(t *testing.T) {
	testCases := []struct {
		name   string
		bits   int
		parity Parity
		stops  int
		expect byte
	}{
		{"8N1", 8, ParityNone, 1, 0x03},
		{"8O1", 8, ParityOdd, 1, 0x0B},
		{"7E2", 7, ParityEven, 2, 0x1E},
		{"8M1", 8, ParityMark, 1, 0x2B},
		{"8S1", 8, ParitySpace, 1, 0x3B},
		{"5N1", 5, ParityNone, 1, 0x00},
		{"6O2", 6, ParityOdd, 2, 0x0D},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := Config{Baud: 1200, Bits: tc.bits, Parity: tc.parity, Stops: tc.stops}
			require.NoError(t, c.Validate())
			require.Equal(t, tc.expect, c.LCR())
			require.Equal(t, "1200 "+tc.name, c.String())
		})
	}
}

func TestValidate(t *testing.T) {
	base := DefaultConfig()
	require.NoError(t, base.Validate())

	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero baud", func(c *Config) { c.Baud = 0 }},
		{"negative baud", func(c *Config) { c.Baud = -9600 }},
		{"4 bits", func(c *Config) { c.Bits = 4 }},
		{"9 bits", func(c *Config) { c.Bits = 9 }},
		{"unknown parity", func(c *Config) { c.Parity = 'X' }},
		{"zero stops", func(c *Config) { c.Stops = 0 }},
		{"3 stops", func(c *Config) { c.Stops = 3 }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.modify(&c)
			err := c.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestDivisor(t *testing.T) {
	require.Equal(t, 768, Divisor(DefaultXtal, 1200))
	require.Equal(t, 3, 768>>8)
	require.Equal(t, 0, 768&0xff)
	require.Equal(t, 96, Divisor(DefaultXtal, 9600))
	require.Equal(t, 8, Divisor(DefaultXtal, 115200))
	// truncated, not rounded.
	require.Equal(t, 131, Divisor(DefaultXtal, 7000))
}

func TestLineStatus(t *testing.T) {
	s := LineStatus(LSRDataReady | LSRParity)
	require.True(t, s.DataReady())
	require.True(t, s.ParityError())
	require.False(t, s.Noise())
	require.True(t, LineStatus(LSRFraming).Noise())
	require.True(t, LineStatus(LSRBreak).Noise())
	require.True(t, LineStatus(LSRTxEmpty).TxEmpty())
	require.False(t, LineStatus(LSRTHREmpty).TxEmpty())
}

func TestRegisterOffset(t *testing.T) {
	require.Equal(t, byte(0x18), RegLCR.Offset())
	require.Equal(t, byte(0x78), RegEFCR.Offset())
	require.Equal(t, byte(0x00), RegRHR.Offset())
}
