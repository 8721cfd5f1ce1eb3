// Package uart drives the UART of an SC16IS740/750/760 bridge chip through
// its I2C register interface.
package uart

// The chip has no host-side interrupt wiring in this setup, so everything is
// polled. Transmission is flow controlled against the 64 byte TX FIFO using
// the TXLVL register, and waits are bounded by a number of bit times derived
// from the configured baud rate.
//
// RS-485 multidrop addressing is done by transmitting the first byte of a
// message with the parity bit forced high (mark). Receivers see that byte as
// a parity error in normal parity mode, which is why ReadMsg reads the first
// byte with parity errors ignored.
//
// A Uart is not safe for concurrent use. Register sequences such as the
// divisor latch or the enhanced register unlock must not interleave, so a
// single goroutine must own the Uart (see framework.Loop).
