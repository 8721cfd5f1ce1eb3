package sh

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mikeyg123/pi-alarm/pkg/keypad"
	"github.com/mikeyg123/pi-alarm/pkg/uart"
)

type command struct {
	name    string
	aliases []string
	help    string
	run     func(d *Device, args []string) (interface{}, error)
}

// Key is a key report.
type Key struct {
	Code byte   `json:"code"`
	Name string `json:"name"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s (%#02x)", k.Name, k.Code)
}

// Bytes is raw line data.
type Bytes []byte

func (b Bytes) String() string {
	return fmt.Sprintf("% x", []byte(b))
}

// MarshalJSON encodes the bytes as an array of numbers.
func (b Bytes) MarshalJSON() ([]byte, error) {
	vals := make([]string, len(b))
	for n, v := range b {
		vals[n] = strconv.Itoa(int(v))
	}
	return []byte("[" + strings.Join(vals, ",") + "]"), nil
}

// Value is a register or GPIO value.
type Value byte

func (v Value) String() string {
	return fmt.Sprintf("%#02x 0b%08b", byte(v), byte(v))
}

// Result is the outcome of a command without output.
type Result struct {
	OK   bool         `json:"ok"`
	Sent *keypad.Sent `json:"sent,omitempty"`
}

func (r Result) String() string {
	if r.Sent != nil {
		return "sent " + r.Sent.String()
	}
	return "OK"
}

var registerNames = map[string]uart.Register{
	"rhr":     uart.RegRHR,
	"thr":     uart.RegTHR,
	"ier":     uart.RegIER,
	"fcr":     uart.RegFCR,
	"iir":     uart.RegIIR,
	"lcr":     uart.RegLCR,
	"mcr":     uart.RegMCR,
	"lsr":     uart.RegLSR,
	"msr":     uart.RegMSR,
	"spr":     uart.RegSPR,
	"txlvl":   uart.RegTXLVL,
	"rxlvl":   uart.RegRXLVL,
	"iodir":   uart.RegIODir,
	"iostate": uart.RegIOState,
	"iointen": uart.RegIOIntEn,
	"ioc":     uart.RegIOC,
	"efcr":    uart.RegEFCR,
}

// ParseByte parses 0x4b, 75, 0113 or 'K'.
func ParseByte(s string) (byte, error) {
	if len(s) == 3 && s[0] == '\'' && s[2] == '\'' {
		return s[1], nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

// ParseRegister parses a register name or number.
func ParseRegister(s string) (uart.Register, error) {
	if reg, ok := registerNames[strings.ToLower(s)]; ok {
		return reg, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil || v > 0x0f {
		return 0, fmt.Errorf("invalid register %q", s)
	}
	return uart.Register(v), nil
}

func parseBytes(args []string) ([]byte, error) {
	out := make([]byte, len(args))
	for n, arg := range args {
		b, err := ParseByte(arg)
		if err != nil {
			return nil, err
		}
		out[n] = b
	}
	return out, nil
}

func expectArgs(args []string, min, max int, usage string) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func sentResult(sent keypad.Sent, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return Result{OK: sent.Complete(), Sent: &sent}, nil
}

func okResult(err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return Result{OK: true}, nil
}

func oneByte(args []string, usage string) (byte, error) {
	if err := expectArgs(args, 1, 1, usage); err != nil {
		return 0, err
	}
	return ParseByte(args[0])
}

func readKey(d *Device) (interface{}, error) {
	code, ok, err := d.Keypad.ReadKey()
	if err != nil || !ok {
		return nil, err
	}
	return Key{Code: code, Name: keypad.KeyName(code)}, nil
}

var commands = []*command{
	{
		name: "lcd",
		help: "TEXT...  show text on the display",
		run: func(d *Device, args []string) (interface{}, error) {
			return sentResult(d.Keypad.WriteLcd(strings.Join(args, " ")))
		},
	},
	{
		name: "clear",
		help: "clear the display",
		run: func(d *Device, args []string) (interface{}, error) {
			return sentResult(d.Keypad.ClearLcd())
		},
	},
	{
		name: "leds",
		help: "ZONES LEDS  set zone and status LEDs",
		run: func(d *Device, args []string) (interface{}, error) {
			if err := expectArgs(args, 2, 2, "leds ZONES LEDS"); err != nil {
				return nil, err
			}
			vals, err := parseBytes(args)
			if err != nil {
				return nil, err
			}
			return sentResult(d.Keypad.SetLeds(vals[0], vals[1]))
		},
	},
	{
		name: "key",
		help: "read one key report",
		run: func(d *Device, args []string) (interface{}, error) {
			key, err := readKey(d)
			if err == nil && key == nil {
				return nil, fmt.Errorf("no key")
			}
			return key, err
		},
	},
	{
		name: "keys",
		help: "[DURATION]  read key reports for a while, default 10s",
		run: func(d *Device, args []string) (interface{}, error) {
			if err := expectArgs(args, 0, 1, "keys [DURATION]"); err != nil {
				return nil, err
			}
			dur := 10 * time.Second
			if len(args) > 0 {
				var err error
				if dur, err = time.ParseDuration(args[0]); err != nil {
					return nil, err
				}
			}
			keys := []Key{}
			clock := d.Uart.Clock
			for deadline := clock.Now().Add(dur); clock.Now().Before(deadline); {
				key, err := readKey(d)
				if err != nil {
					return nil, err
				}
				if key != nil {
					keys = append(keys, key.(Key))
				}
			}
			return keys, nil
		},
	},
	{
		name: "send",
		help: "ADDR BYTE...  send a frame, checksum appended",
		run: func(d *Device, args []string) (interface{}, error) {
			if err := expectArgs(args, 1, -1, "send ADDR BYTE..."); err != nil {
				return nil, err
			}
			msg, err := parseBytes(args)
			if err != nil {
				return nil, err
			}
			return sentResult(d.Keypad.Write(msg))
		},
	},
	{
		name: "read",
		help: "N  read a raw message of N bytes",
		run: func(d *Device, args []string) (interface{}, error) {
			if err := expectArgs(args, 1, 1, "read N"); err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid count %q", args[0])
			}
			data, err := d.Uart.ReadMsg(n)
			return Bytes(data), err
		},
	},
	{
		name:    "reg.get",
		aliases: []string{"get"},
		help:    "REG  read a register",
		run: func(d *Device, args []string) (interface{}, error) {
			if err := expectArgs(args, 1, 1, "reg.get REG"); err != nil {
				return nil, err
			}
			reg, err := ParseRegister(args[0])
			if err != nil {
				return nil, err
			}
			val, err := d.Uart.Get(reg)
			return Value(val), err
		},
	},
	{
		name:    "reg.set",
		aliases: []string{"set"},
		help:    "REG VAL  write a register",
		run: func(d *Device, args []string) (interface{}, error) {
			if err := expectArgs(args, 2, 2, "reg.set REG VAL"); err != nil {
				return nil, err
			}
			reg, err := ParseRegister(args[0])
			if err != nil {
				return nil, err
			}
			val, err := ParseByte(args[1])
			if err != nil {
				return nil, err
			}
			return okResult(d.Uart.Set(reg, val))
		},
	},
	{
		name: "gpio.dir",
		help: "MASK  set GPIO directions, 1 for output",
		run: func(d *Device, args []string) (interface{}, error) {
			mask, err := oneByte(args, "gpio.dir MASK")
			if err != nil {
				return nil, err
			}
			return okResult(d.Uart.SetIODir(mask))
		},
	},
	{
		name: "gpio.set",
		help: "MASK  set GPIO outputs",
		run: func(d *Device, args []string) (interface{}, error) {
			mask, err := oneByte(args, "gpio.set MASK")
			if err != nil {
				return nil, err
			}
			return okResult(d.Uart.SetIOState(mask))
		},
	},
	{
		name: "gpio.get",
		help: "read GPIO states",
		run: func(d *Device, args []string) (interface{}, error) {
			val, err := d.Uart.IOState()
			return Value(val), err
		},
	},
	{
		name: "rx.on",
		help: "enable the receiver",
		run: func(d *Device, args []string) (interface{}, error) {
			return okResult(d.Uart.EnableRx())
		},
	},
	{
		name: "rx.off",
		help: "disable the receiver",
		run: func(d *Device, args []string) (interface{}, error) {
			return okResult(d.Uart.DisableRx())
		},
	},
}

// Exec runs a shell command without the interactive shell.
func Exec(d *Device, name string, args ...string) (interface{}, error) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(d, args)
		}
		for _, alias := range cmd.aliases {
			if alias == name {
				return cmd.run(d, args)
			}
		}
	}
	return nil, fmt.Errorf("unknown command %q", name)
}
