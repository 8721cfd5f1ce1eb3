// Package uarttest provides a scripted bridge chip and a virtual clock
// for testing code built on package uart without hardware.
package uarttest

import (
	"sync"
	"time"

	"github.com/mikeyg123/pi-alarm/pkg/uart"
)

// Write is a recorded register write.
type Write struct {
	Reg uart.Register
	Val byte
}

// Chip implements uart.RegisterIO. Reads are answered from per-register
// queues. Once a queue drains, the last value read keeps being returned
// until more values are queued.
type Chip struct {
	// ReadErr fails every read.
	ReadErr error
	// WriteFunc, if set, is consulted before recording a write.
	WriteFunc func(reg uart.Register, val byte) error

	lock   sync.Mutex
	writes []Write
	queues map[uart.Register][]byte
	last   map[uart.Register]byte
	reads  map[uart.Register]int
}

// NewChip creates a Chip reading zero from every register.
func NewChip() *Chip {
	return &Chip{
		queues: make(map[uart.Register][]byte),
		last:   make(map[uart.Register]byte),
		reads:  make(map[uart.Register]int),
	}
}

// Queue appends values to be returned by reads of reg.
func (c *Chip) Queue(reg uart.Register, vals ...byte) *Chip {
	c.lock.Lock()
	c.queues[reg] = append(c.queues[reg], vals...)
	c.lock.Unlock()
	return c
}

// QueueRx scripts the receive side so data arrives one character per
// LSR poll, followed by silence.
func (c *Chip) QueueRx(data ...byte) *Chip {
	for _, b := range data {
		c.Queue(uart.RegLSR, uart.LSRDataReady)
		c.Queue(uart.RegRHR, b)
	}
	return c.Queue(uart.RegLSR, 0)
}

// QueueRxStatus scripts one received character with extra LSR flags.
func (c *Chip) QueueRxStatus(lsr byte, b byte) *Chip {
	c.Queue(uart.RegLSR, lsr|uart.LSRDataReady)
	return c.Queue(uart.RegRHR, b)
}

// ReadRegister implements uart.RegisterIO.
func (c *Chip) ReadRegister(offset byte) (byte, error) {
	if c.ReadErr != nil {
		return 0, c.ReadErr
	}
	reg := uart.Register(offset >> 3)
	c.lock.Lock()
	defer c.lock.Unlock()
	c.reads[reg]++
	q := c.queues[reg]
	if len(q) == 0 {
		return c.last[reg], nil
	}
	val := q[0]
	c.queues[reg] = q[1:]
	c.last[reg] = val
	return val, nil
}

// WriteRegister implements uart.RegisterIO.
func (c *Chip) WriteRegister(offset, value byte) error {
	reg := uart.Register(offset >> 3)
	if fn := c.WriteFunc; fn != nil {
		if err := fn(reg, value); err != nil {
			return err
		}
	}
	c.lock.Lock()
	c.writes = append(c.writes, Write{Reg: reg, Val: value})
	c.lock.Unlock()
	return nil
}

// Writes returns all recorded writes.
func (c *Chip) Writes() []Write {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]Write(nil), c.writes...)
}

// WritesTo returns the values written to reg in order.
func (c *Chip) WritesTo(reg uart.Register) []byte {
	var vals []byte
	for _, w := range c.Writes() {
		if w.Reg == reg {
			vals = append(vals, w.Val)
		}
	}
	return vals
}

// Reads returns how many times reg was read.
func (c *Chip) Reads(reg uart.Register) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.reads[reg]
}

// ClearWrites forgets recorded writes, e.g. after Configure.
func (c *Chip) ClearWrites() {
	c.lock.Lock()
	c.writes = nil
	c.lock.Unlock()
}

// Clock implements uart.Clock with virtual time. Sleep never blocks.
type Clock struct {
	// OnSleep is called after time advanced.
	OnSleep func(time.Duration)

	now    time.Time
	sleeps []time.Duration
}

// NewClock creates a Clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now implements uart.Clock.
func (c *Clock) Now() time.Time {
	return c.now
}

// Sleep implements uart.Clock.
func (c *Clock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	if fn := c.OnSleep; fn != nil {
		fn(d)
	}
}

// Sleeps returns every requested sleep.
func (c *Clock) Sleeps() []time.Duration {
	return c.sleeps
}

// Slept returns the total virtual time slept.
func (c *Clock) Slept() (total time.Duration) {
	for _, d := range c.sleeps {
		total += d
	}
	return
}
