// Package hostbus provides chip register access over Linux i2c-dev.
package hostbus

import (
	"fmt"

	"golang.org/x/exp/io/i2c"
)

// DefaultDevice is the I2C bus exposed on the Raspberry Pi header.
const DefaultDevice = "/dev/i2c-1"

// Bus is an opened I2C slave device.
type Bus struct {
	dev  *i2c.Device
	path string
	addr int
}

// Open opens the slave at addr on the i2c-dev device node.
func Open(path string, addr int) (*Bus, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: path}, addr)
	if err != nil {
		return nil, fmt.Errorf("open %s@%#x: %w", path, addr, err)
	}
	return &Bus{dev: dev, path: path, addr: addr}, nil
}

// ReadRegister reads one byte from the register at offset.
func (b *Bus) ReadRegister(offset byte) (byte, error) {
	var buf [1]byte
	if err := b.dev.ReadReg(offset, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteRegister writes one byte to the register at offset.
func (b *Bus) WriteRegister(offset, value byte) error {
	return b.dev.WriteReg(offset, []byte{value})
}

// String implements fmt.Stringer.
func (b *Bus) String() string {
	return fmt.Sprintf("%s@%#x", b.path, b.addr)
}

// Close implements io.Closer.
func (b *Bus) Close() error {
	return b.dev.Close()
}
