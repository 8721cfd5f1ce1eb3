package uart

import (
	"github.com/mikeyg123/pi-alarm/pkg/uart/hostbus"
)

// Open opens the chip at addr on an i2c-dev bus. The returned Uart owns
// the bus handle until Close.
func Open(devPath string, addr, xtal int) (*Uart, error) {
	bus, err := hostbus.Open(devPath, addr)
	if err != nil {
		return nil, err
	}
	return New(bus, addr, xtal), nil
}
