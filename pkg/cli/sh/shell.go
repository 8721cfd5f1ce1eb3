// Package sh provides an interactive shell to poke the keypad and the
// UART bridge by hand.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/mikeyg123/pi-alarm/pkg/env"
	"github.com/mikeyg123/pi-alarm/pkg/keypad"
	"github.com/mikeyg123/pi-alarm/pkg/uart"
)

// Device is what the shell commands operate on.
type Device struct {
	Uart   *uart.Uart
	Keypad *keypad.Keypad
}

// NewDevice wraps a configured Uart.
func NewDevice(u *uart.Uart) *Device {
	return &Device{Uart: u, Keypad: keypad.New(u)}
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Device *Device
}

const shellKey = "$shell"

var (
	evalOnly   bool
	outputJSON bool
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(dev *Device) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Device: dev,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", dev.Uart.Config()))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd.ishellCmd())
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Format renders a command result for display.
func (s *Shell) Format(res interface{}) (string, error) {
	if s.OutputJSON {
		out, err := json.Marshal(res)
		return string(out), err
	}
	return fmt.Sprint(res), nil
}

// Run runs args as a single command, or the interactive shell.
func (s *Shell) Run(args ...string) error {
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if !s.Interactive {
		return fmt.Errorf("command expected")
	}
	s.Shell.Run()
	return nil
}

func (cmd *command) ishellCmd() *ishell.Cmd {
	return &ishell.Cmd{
		Name:    cmd.name,
		Aliases: cmd.aliases,
		Help:    cmd.help,
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			res, err := cmd.run(s.Device, c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			out, err := s.Format(res)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(out)
		},
	}
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	u := env.NewConfig().MustOpenUart()
	err := New(NewDevice(u)).Run(flag.Args()...)
	u.Close()
	if err != nil {
		glog.Exitf("%s: %v", strings.Join(flag.Args(), " "), err)
	}
}
