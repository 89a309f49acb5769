package core

import (
	"tinygo.org/x/drivers"
)

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// Valid reports whether the address fits in 7 bits.
func (a I2CAddress) Valid() bool {
	return a <= 0x7F
}

// ProbeI2C reports whether a device acknowledges its address.
// It performs an empty write.
func ProbeI2C(bus drivers.I2C, addr I2CAddress) bool {
	if bus == nil || !addr.Valid() {
		return false
	}
	return bus.Tx(uint16(addr), nil, nil) == nil
}
