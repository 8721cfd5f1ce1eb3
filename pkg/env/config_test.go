package env

import (
	"errors"
	"flag"
	"io/ioutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeyg123/pi-alarm/pkg/uart"
)

func parseFlags(t *testing.T, args ...string) (*Config, error) {
	conf := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(ioutil.Discard)
	SetupFlagSet(fs, conf)
	return conf, fs.Parse(args)
}

func TestDefaults(t *testing.T) {
	conf, err := parseFlags(t)
	require.NoError(t, err)
	assert.Equal(t, 0x48, conf.I2CAddr)
	assert.Equal(t, "1200 8O1", conf.Line.String())
	assert.True(t, conf.Line.EnableRx)
	assert.False(t, conf.Line.AutoRS485)
	assert.False(t, conf.Line.Multidrop)
	assert.NotEmpty(t, conf.ID)
	assert.NoError(t, conf.Validate())
}

func TestFlags(t *testing.T) {
	conf, err := parseFlags(t,
		"-i2c-dev", "/dev/i2c-0",
		"-i2c-addr", "0x4d",
		"-baud", "9600",
		"-bits", "7",
		"-parity", "E",
		"-stops", "2",
		"-multidrop", "K",
		"-rs485",
		"-id", "hall",
		"-mqtt", "",
		"-poll", "20ms",
	)
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-0", conf.I2CDevice)
	assert.Equal(t, 0x4d, conf.I2CAddr)
	assert.Equal(t, "9600 7E2", conf.Line.String())
	assert.True(t, conf.Line.Multidrop)
	assert.Equal(t, byte('K'), conf.Line.MultidropAddr)
	assert.True(t, conf.Line.AutoRS485)
	assert.Equal(t, "hall", conf.ID)
	assert.Empty(t, conf.MQTTBrokerURL)
	assert.Equal(t, 20*time.Millisecond, conf.PollInterval)
	assert.Equal(t, "/dev/i2c-0@0x4d", conf.Bus())
	assert.NoError(t, conf.Validate())

	// the defaults are not touched.
	assert.Equal(t, "1200 8O1", NewConfig().Line.String())
}

func TestRS485Usage(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	SetupFlagSet(fs, NewConfig())
	f := fs.Lookup("rs485")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, "9-bit multidrop address detection")
}

func TestBadFlags(t *testing.T) {
	_, err := parseFlags(t, "-parity", "X")
	assert.Error(t, err)
	_, err = parseFlags(t, "-parity", "OE")
	assert.Error(t, err)
	_, err = parseFlags(t, "-multidrop", "KP")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	conf := NewConfig()
	conf.Line.Baud = 1
	assert.True(t, errors.Is(conf.Validate(), uart.ErrInvalidConfig))

	conf = NewConfig()
	conf.Line.Bits = 9
	assert.True(t, errors.Is(conf.Validate(), uart.ErrInvalidConfig))

	conf = NewConfig()
	conf.I2CAddr = 0x80
	assert.Error(t, conf.Validate())

	conf = NewConfig()
	conf.PollInterval = 0
	assert.Error(t, conf.Validate())

	_, err := conf.OpenUart()
	assert.Error(t, err)
}
