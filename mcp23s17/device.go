// Package mcp23s17 drives the Microchip MCP23S17 16-bit SPI port expander.
//
// Pins 0-7 are port A, pins 8-15 are port B. Every single pin operation is a
// read-modify-write of the whole port register, since the chip has no per-bit
// set or clear. 16-bit operations touch the A register and then the B
// register in two separately selected transactions.
//
// Datasheet: https://ww1.microchip.com/downloads/en/devicedoc/20001952c.pdf
package mcp23s17

import (
	"tinyperiph/core"
)

// Device is one MCP23S17 on a select line
type Device struct {
	gpio      core.GPIODriver
	sel       core.GPIOPin
	address   uint8 // hardware address, already shifted into opcode position
	transport Transport

	err Error
}

// New creates a driver for the chip selected by sel, speaking over
// transport. address is the A2A1A0 hardware address (0-7); it only matters
// once hardware addressing is enabled.
func New(gpio core.GPIODriver, sel core.GPIOPin, address uint8, transport Transport) *Device {
	return &Device{
		gpio:      gpio,
		sel:       sel,
		address:   (address & 0x07) << 1,
		transport: transport,
		err:       OK,
	}
}

// NewHardware creates a driver using a hardware SPI bus
func NewHardware(gpio core.GPIODriver, sel core.GPIOPin, address uint8, bus core.SPIBus) *Device {
	return New(gpio, sel, address, NewHardwareTransport(bus))
}

// NewSoftware creates a driver that bit-bangs SPI on dataIn, dataOut and clock
func NewSoftware(gpio core.GPIODriver, sel, dataIn, dataOut, clock core.GPIOPin, address uint8) *Device {
	return New(gpio, sel, address, NewSoftwareTransport(gpio, clock, dataOut, dataIn))
}

// Begin sets up the select line and transport, disables address
// auto-increment and enables the pull-ups on all 16 pins.
func (d *Device) Begin() error {
	if err := d.gpio.ConfigureOutput(d.sel); err != nil {
		return err
	}
	if err := d.gpio.SetPin(d.sel, true); err != nil {
		return err
	}

	if err := d.transport.Configure(); err != nil {
		return err
	}

	// Nothing to probe, see IsConnected
	d.IsConnected()

	// SEQOP: address pointer does not increment (datasheet p.20)
	if err := d.writeReg(IOCON, IOCONSEQOP); err != nil {
		return err
	}

	// Force INPUT_PULLUP on all pins
	if err := d.writeReg(GPPUA, 0xFF); err != nil {
		return err
	}
	if err := d.writeReg(GPPUB, 0xFF); err != nil {
		return err
	}

	core.DebugPrintln("mcp23s17 addr=" + core.Itoa(int(d.Address())) + " ready")
	return nil
}

// IsConnected always reports true. The chip has no identification register
// and SPI has no acknowledge, so there is nothing to probe.
func (d *Device) IsConnected() bool {
	d.err = OK
	return true
}

// Address returns the A2A1A0 hardware address
func (d *Device) Address() uint8 {
	return d.address >> 1
}

// LastError returns the error of the most recent failed operation and
// resets it, so a second call returns OK.
func (d *Device) LastError() Error {
	e := d.err
	d.err = OK
	return e
}

// UsesHardwareSPI reports whether the device talks through a hardware SPI bus
func (d *Device) UsesHardwareSPI() bool {
	_, ok := d.transport.(*HardwareTransport)
	return ok
}

// SetSPISpeed changes the hardware bus clock. If the bus rejects the rate
// the previous one stays in use and the error is returned.
func (d *Device) SetSPISpeed(hz uint32) error {
	hw, ok := d.transport.(*HardwareTransport)
	if !ok {
		return ErrNotHardware
	}
	return hw.SetSpeed(hz)
}

// SPISpeed returns the hardware bus clock, or 0 for the bit-banged transport
func (d *Device) SPISpeed() uint32 {
	hw, ok := d.transport.(*HardwareTransport)
	if !ok {
		return 0
	}
	return hw.Speed()
}

// BusError returns and clears the last failure recorded by the transport:
// a hardware bus error or a GPIO error while bit-banging. The chip itself
// cannot report transfer errors.
func (d *Device) BusError() error {
	if r, ok := d.transport.(errorRecorder); ok {
		return r.Err()
	}
	return nil
}

// EnableControlRegister sets mask bits in IOCON
func (d *Device) EnableControlRegister(mask uint8) error {
	reg, err := d.readReg(IOCON)
	if err != nil {
		return err
	}
	return d.writeReg(IOCON, reg|mask)
}

// DisableControlRegister clears mask bits in IOCON
func (d *Device) DisableControlRegister(mask uint8) error {
	reg, err := d.readReg(IOCON)
	if err != nil {
		return err
	}
	return d.writeReg(IOCON, reg&^mask)
}

// EnableHardwareAddress makes the chip honour the address bits in the
// opcode, so up to 8 chips can share one select line.
func (d *Device) EnableHardwareAddress() error {
	return d.EnableControlRegister(IOCONHAEN)
}

// DisableHardwareAddress makes the chip ignore the opcode address bits
func (d *Device) DisableHardwareAddress() error {
	return d.DisableControlRegister(IOCONHAEN)
}
