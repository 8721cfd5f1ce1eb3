// Package env assembles the keypad daemon and tools from flags and
// environment variables.
package env

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/mikeyg123/pi-alarm/pkg/uart"
	"github.com/mikeyg123/pi-alarm/pkg/uart/hostbus"
)

// Environment variables overriding defaults.
const (
	EnvI2CDev  = "PIALARM_I2C_DEV"
	EnvMQTTURL = "PIALARM_MQTT_URL"
	EnvID      = "PIALARM_ID"
)

// Config provides common options for the keypad programs.
type Config struct {
	I2CDevice string
	I2CAddr   int
	Xtal      int
	Line      uart.Config

	// ID names the keypad in MQTT topics.
	ID string
	// MQTTBrokerURL specifies the MQTT broker to use, empty disables it.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// Listen is the address of the websocket feed, empty disables it.
	Listen       string
	PollInterval time.Duration
	// Banner is shown on the display at startup.
	Banner string
}

var defaultConfig = Config{
	I2CDevice:     hostbus.DefaultDevice,
	I2CAddr:       uart.DefaultAddr,
	Xtal:          uart.DefaultXtal,
	Line:          DefaultLine(),
	MQTTBrokerURL: "mqtt://localhost:1883/alarm/",
	PollInterval:  50 * time.Millisecond,
}

// DefaultLine is the keypad bus line setting, 1200 8O1.
func DefaultLine() uart.Config {
	c := uart.DefaultConfig()
	c.Parity = uart.ParityOdd
	return c
}

func init() {
	if val := os.Getenv(EnvI2CDev); val != "" {
		defaultConfig.I2CDevice = val
	}
	if val, ok := os.LookupEnv(EnvMQTTURL); ok {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv(EnvID); val != "" {
		defaultConfig.ID = val
	} else {
		defaultConfig.ID = MachineID()
	}
}

type parityValue struct {
	p *uart.Parity
}

func (v parityValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

func (v parityValue) Set(s string) error {
	if len(s) != 1 || !uart.Parity(s[0]).IsValid() {
		return fmt.Errorf("parity must be one of N, O, E, M, S")
	}
	*v.p = uart.Parity(s[0])
	return nil
}

type multidropValue struct {
	c *uart.Config
}

func (v multidropValue) String() string {
	if v.c == nil || !v.c.Multidrop {
		return ""
	}
	return string(rune(v.c.MultidropAddr))
}

func (v multidropValue) Set(s string) error {
	switch len(s) {
	case 0:
		v.c.Multidrop, v.c.MultidropAddr = false, 0
	case 1:
		v.c.Multidrop, v.c.MultidropAddr = true, s[0]
	default:
		return fmt.Errorf("multidrop address must be a single character")
	}
	return nil
}

// SetupFlagSet registers flags on fs which write into c.
func SetupFlagSet(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.I2CDevice, "i2c-dev", c.I2CDevice, "I2C device of the UART bridge")
	fs.IntVar(&c.I2CAddr, "i2c-addr", c.I2CAddr, "I2C address of the UART bridge")
	fs.IntVar(&c.Xtal, "xtal", c.Xtal, "Crystal frequency of the UART bridge in Hz")
	fs.IntVar(&c.Line.Baud, "baud", c.Line.Baud, "Baud rate")
	fs.IntVar(&c.Line.Bits, "bits", c.Line.Bits, "Data bits, 5-8")
	fs.Var(parityValue{&c.Line.Parity}, "parity", "Parity: N, O, E, M or S")
	fs.IntVar(&c.Line.Stops, "stops", c.Line.Stops, "Stop bits, 1 or 2")
	fs.BoolVar(&c.Line.EnableRx, "rx", c.Line.EnableRx, "Enable receiver")
	fs.BoolVar(&c.Line.AutoRS485, "rs485", c.Line.AutoRS485, "9-bit multidrop address detection (datasheet 9.3)")
	fs.Var(multidropValue{&c.Line}, "multidrop", "Multidrop address character, empty to disable")
	fs.BoolVar(&c.Line.Debug, "uart-debug", c.Line.Debug, "Trace UART register access")
	fs.StringVar(&c.ID, "id", c.ID, "Keypad ID")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	fs.StringVar(&c.Listen, "listen", c.Listen, "Websocket feed listen address, e.g. :8080")
	fs.DurationVar(&c.PollInterval, "poll", c.PollInterval, "Keypad poll interval")
	fs.StringVar(&c.Banner, "banner", c.Banner, "Text shown on the display at startup")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	SetupFlagSet(flag.CommandLine, &defaultConfig)
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the configuration before touching hardware.
func (c *Config) Validate() error {
	if c.I2CAddr < 0 || c.I2CAddr > 0x7f {
		return fmt.Errorf("invalid i2c address %#x", c.I2CAddr)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval %v", c.PollInterval)
	}
	if err := c.Line.Validate(); err != nil {
		return err
	}
	if d := uart.Divisor(c.Xtal, c.Line.Baud); d <= 0 || d > 0xffff {
		return fmt.Errorf("%w: baud %d unreachable with xtal %d", uart.ErrInvalidConfig, c.Line.Baud, c.Xtal)
	}
	return nil
}

// Bus describes the bridge location for display.
func (c *Config) Bus() string {
	return fmt.Sprintf("%s@%#x", c.I2CDevice, c.I2CAddr)
}

// OpenUart opens and configures the UART bridge.
func (c *Config) OpenUart() (*uart.Uart, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	u, err := uart.Open(c.I2CDevice, c.I2CAddr, c.Xtal)
	if err != nil {
		return nil, err
	}
	if err := u.Configure(c.Line); err != nil {
		u.Close()
		return nil, fmt.Errorf("configure %s: %w", c.Bus(), err)
	}
	glog.Infof("uart %s configured %s", c.Bus(), c.Line)
	return u, nil
}

// MustOpenUart opens the UART bridge and exits on error.
func (c *Config) MustOpenUart() *uart.Uart {
	u, err := c.OpenUart()
	if err != nil {
		glog.Exitf("open uart: %v", err)
	}
	return u
}
