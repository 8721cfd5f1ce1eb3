package uart

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
)

// RegisterIO is the host side access to the chip registers. Offsets are
// I2C sub-addresses, see Register.Offset.
type RegisterIO interface {
	ReadRegister(offset byte) (byte, error)
	WriteRegister(offset, value byte) error
}

const (
	// sleepForBits is a little more than the bit times needed to send
	// one character.
	sleepForBits = 20
	// maxTxWaitPolls bounds WaitForEmptyTx even when TXLVL keeps changing.
	maxTxWaitPolls = TxFIFOSize * sleepForBits
)

// DefaultAddr and DefaultXtal are the usual board wiring.
const (
	DefaultAddr = 0x48
	DefaultXtal = 14745600
)

// Uart is one bridge chip.
type Uart struct {
	Addr  int
	Xtal  int
	Clock Clock

	regs       RegisterIO
	config     Config
	configured bool
	lcr        byte
	txSpaces   int
	lsr        LineStatus
}

// New creates a Uart on top of a register interface. Configure must be
// called before any line operation.
func New(regs RegisterIO, addr, xtal int) *Uart {
	return &Uart{
		Addr:  addr,
		Xtal:  xtal,
		Clock: SystemClock,
		regs:  regs,
	}
}

// Close releases the register interface if it's closable.
func (u *Uart) Close() error {
	if closer, ok := u.regs.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Config returns the current line configuration.
func (u *Uart) Config() Config {
	return u.config
}

// LCR returns the nominal line control register value.
func (u *Uart) LCR() byte {
	return u.lcr
}

// LineStatus returns the line status read by the last receive operation.
func (u *Uart) LineStatus() LineStatus {
	return u.lsr
}

// TxSpaces returns the cached number of free TX FIFO slots. Zero means
// the next write re-reads TXLVL.
func (u *Uart) TxSpaces() int {
	return u.txSpaces
}

// Set writes a register directly.
// Note this can put the chip into a state that disagrees with Config.
func (u *Uart) Set(reg Register, val byte) error {
	if u.config.Debug {
		glog.Infof("set register %#x -> 0b%08b %q", byte(reg), val, rune(val))
	}
	if err := u.regs.WriteRegister(reg.Offset(), val); err != nil {
		return fmt.Errorf("write register %#x: %w", byte(reg), err)
	}
	return nil
}

// Get reads a register directly.
func (u *Uart) Get(reg Register) (byte, error) {
	val, err := u.regs.ReadRegister(reg.Offset())
	if err != nil {
		return 0, fmt.Errorf("read register %#x: %w", byte(reg), err)
	}
	if u.config.Debug {
		glog.Infof("get register %#x <- 0b%08b %q", byte(reg), val, rune(val))
	}
	return val, nil
}

type regValue struct {
	reg Register
	val byte
}

func (u *Uart) setAll(values ...regValue) error {
	for _, v := range values {
		if err := u.Set(v.reg, v.val); err != nil {
			return err
		}
	}
	return nil
}

// Configure resets and (re)programs the line. Baud rates up to about
// 80000 work with the default crystal.
func (u *Uart) Configure(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	divisor := Divisor(u.Xtal, c.Baud)
	if divisor <= 0 || divisor > 0xffff {
		return fmt.Errorf("%w: baud %d out of range for xtal %d", ErrInvalidConfig, c.Baud, u.Xtal)
	}
	u.configured = false
	u.config, u.lcr, u.txSpaces = c, c.LCR(), 0

	seq := []regValue{
		{RegLCR, LCREnableDivisor},
		{RegDLH, byte(divisor >> 8)},
		{RegDLL, byte(divisor & 0xff)},
		{RegLCR, u.lcr},
		{RegIER, IERLineStatus},
		{RegLCR, LCREnableEFRs},
		{RegEFCR, c.efcr()},
	}
	if c.Multidrop {
		seq = append(seq,
			regValue{RegEFR, EFRSpecialChar},
			regValue{RegXOFF2, c.MultidropAddr})
	}
	seq = append(seq,
		regValue{RegLCR, u.lcr},
		regValue{RegFCR, FCRRxTrigger8 | FCRTxTrigger56 | FCRResetTx | FCRResetRx | FCREnableFIFO},
		regValue{RegMCR, 0},
		regValue{RegIOC, 0})
	if err := u.setAll(seq...); err != nil {
		return err
	}
	u.configured = true
	glog.V(1).Infof("uart %#x configured: %s", u.Addr, c)
	return nil
}

func (c Config) efcr() (efcr byte) {
	if !c.EnableRx {
		efcr |= EFCRRxDisable
	}
	if c.AutoRS485 {
		efcr |= EFCR9Bit
	}
	return
}

// bitTime is the duration of one bit on the line.
func (u *Uart) bitTime() time.Duration {
	return time.Second / time.Duration(u.config.Baud)
}

// charTime is a little longer than one character on the line.
func (u *Uart) charTime() time.Duration {
	return sleepForBits * time.Second / time.Duration(u.config.Baud)
}

// markLCR forces the parity bit to 1 for address bytes.
func (u *Uart) markLCR() byte {
	return (u.lcr | LCRForceParity | LCREnableParity) &^ LCREvenParity
}

// EnableRx turns the receiver on.
func (u *Uart) EnableRx() error {
	return u.setRx(true)
}

// DisableRx turns the receiver off.
func (u *Uart) DisableRx() error {
	return u.setRx(false)
}

func (u *Uart) setRx(enabled bool) error {
	if !u.configured {
		return ErrNotConfigured
	}
	c := u.config
	c.EnableRx = enabled
	if err := u.setAll(
		regValue{RegLCR, LCREnableEFRs},
		regValue{RegEFCR, c.efcr()},
		regValue{RegLCR, u.lcr},
	); err != nil {
		return err
	}
	u.config = c
	return nil
}

// ResetTx clears the TX FIFO.
func (u *Uart) ResetTx() error {
	u.txSpaces = 0
	return u.Set(RegFCR, FCRRxTrigger8|FCRTxTrigger56|FCRResetTx|FCREnableFIFO)
}

// ResetRx clears the RX FIFO.
func (u *Uart) ResetRx() error {
	return u.Set(RegFCR, FCRRxTrigger8|FCRTxTrigger56|FCRResetRx|FCREnableFIFO)
}

func (u *Uart) readTxLevel() error {
	lvl, err := u.Get(RegTXLVL)
	if err != nil {
		return err
	}
	u.txSpaces = int(lvl)
	return nil
}

// WriteChar writes a single character. It returns 0 without error when
// the TX FIFO stays full for longer than one character time.
func (u *Uart) WriteChar(c byte) (int, error) {
	if !u.configured {
		return 0, ErrNotConfigured
	}
	if u.config.Debug {
		glog.Infof("writing %q", rune(c))
	}
	if u.txSpaces <= 0 {
		if err := u.readTxLevel(); err != nil {
			return 0, err
		}
		if u.txSpaces <= 0 {
			u.Clock.Sleep(u.charTime())
			if err := u.readTxLevel(); err != nil {
				return 0, err
			}
			if u.txSpaces <= 0 {
				return 0, nil
			}
		}
	}
	if err := u.Set(RegTHR, c); err != nil {
		return 0, err
	}
	u.txSpaces--
	return 1, nil
}

// Write transmits p and stops at the first character that can't be
// queued. It returns the number of characters sent; a short count with
// a nil error means the transmitter is blocked.
func (u *Uart) Write(p []byte) (int, error) {
	var sent int
	for _, c := range p {
		n, err := u.WriteChar(c)
		if err != nil || n == 0 {
			return sent, err
		}
		sent += n
	}
	return sent, nil
}

// WriteAddr writes a single character with the parity bit forced to 1,
// marking it as an RS-485 address byte.
func (u *Uart) WriteAddr(c byte) (n int, err error) {
	if !u.configured {
		return 0, ErrNotConfigured
	}
	if u.config.Debug {
		glog.Infof("writing address %q", rune(c))
	}
	if err = u.WaitForEmptyTx(); err != nil {
		return
	}
	if err = u.Set(RegLCR, u.markLCR()); err != nil {
		return
	}
	defer func() {
		// LCR must be back to nominal whatever happened above.
		if rerr := u.Set(RegLCR, u.lcr); err == nil {
			err = rerr
		}
		if err == nil {
			err = u.ResetTx()
		}
	}()
	if err = u.ResetTx(); err != nil {
		return
	}
	if n, err = u.WriteChar(c); err != nil || n == 0 {
		return
	}
	err = u.WaitForEmptyTx()
	return
}

// WriteAddrMsg writes msg[0] as an address byte and the rest with normal
// parity. It returns the total number of characters sent.
func (u *Uart) WriteAddrMsg(msg []byte) (int, error) {
	if len(msg) == 0 {
		return 0, nil
	}
	n, err := u.WriteAddr(msg[0])
	if err != nil || n == 0 {
		return n, err
	}
	sent, err := u.Write(msg[1:])
	return n + sent, err
}

// WaitForEmptyTx polls until the transmitter is completely empty. It
// gives up once TXLVL stops moving for sleepForBits bit times, so the line
// may still be busy when it returns.
func (u *Uart) WaitForEmptyTx() error {
	if !u.configured {
		return ErrNotConfigured
	}
	level, stalled := -1, 0
	for polls := 0; polls < maxTxWaitPolls; polls++ {
		lsr, err := u.Get(RegLSR)
		if err != nil {
			return err
		}
		if LineStatus(lsr).TxEmpty() {
			return nil
		}
		lvl, err := u.Get(RegTXLVL)
		if err != nil {
			return err
		}
		if int(lvl) != level {
			level, stalled = int(lvl), 0
		} else if stalled > sleepForBits {
			glog.V(2).Infof("uart %#x: tx stuck at level %d", u.Addr, level)
			return nil
		}
		u.Clock.Sleep(u.bitTime())
		stalled++
	}
	glog.V(2).Infof("uart %#x: tx not empty after %d polls", u.Addr, maxTxWaitPolls)
	return nil
}

func (u *Uart) readLineStatus() error {
	lsr, err := u.Get(RegLSR)
	if err != nil {
		return err
	}
	u.lsr = LineStatus(lsr)
	return nil
}

// ReadChar reads one character. ok is false when no data arrived within
// one character time, or when the character has a parity error and
// ignoreParityErr is false. Reading LSR clears the chip's error latch, so
// a dropped parity error is not seen again by the next read.
func (u *Uart) ReadChar(ignoreParityErr bool) (c byte, ok bool, err error) {
	if !u.configured {
		return 0, false, ErrNotConfigured
	}
	if err = u.readLineStatus(); err != nil {
		return
	}
	if !u.lsr.DataReady() {
		u.Clock.Sleep(u.charTime())
		if err = u.readLineStatus(); err != nil || !u.lsr.DataReady() {
			return
		}
	}
	parityErr := u.lsr.ParityError()
	if parityErr && !ignoreParityErr {
		return
	}
	if c, err = u.Get(RegRHR); err != nil {
		return
	}
	if u.config.Debug && parityErr {
		glog.Infof("parity %q", rune(c))
	}
	return c, true, nil
}

// Read reads n characters, or until a gap in the data stream when n < 0.
// It stops early at the first gap or dropped parity error. Characters
// flagged with break or framing errors are skipped.
func (u *Uart) Read(n int, ignoreParityErr bool) ([]byte, error) {
	var buf []byte
	for n != 0 {
		c, ok, err := u.ReadChar(ignoreParityErr)
		if err != nil {
			return buf, err
		}
		if !ok {
			break
		}
		if u.lsr.Noise() {
			continue
		}
		buf = append(buf, c)
		if n > 0 {
			n--
		}
	}
	return buf, nil
}

// ReadMsg reads an RS-485 addressed message of n characters. The first
// character is the address byte and is read ignoring its parity error.
func (u *Uart) ReadMsg(n int) ([]byte, error) {
	c, ok, err := u.ReadChar(true)
	if err != nil {
		return nil, err
	}
	var msg []byte
	if ok {
		msg = append(msg, c)
	}
	rest, err := u.Read(n-1, false)
	return append(msg, rest...), err
}

// SetIODir sets the direction of the GPIO pins, 1 is output
// (SC16IS750/760 only).
func (u *Uart) SetIODir(mask byte) error {
	return u.Set(RegIODir, mask)
}

// SetIOState drives the GPIO output pins (SC16IS750/760 only).
func (u *Uart) SetIOState(mask byte) error {
	return u.Set(RegIOState, mask)
}

// IOState reads the GPIO pins (SC16IS750/760 only).
func (u *Uart) IOState() (byte, error) {
	return u.Get(RegIOState)
}
