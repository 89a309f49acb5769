package mcp23s17

import (
	"tinyperiph/core"
)

// DefaultSPISpeed is the fastest clock the chip supports (datasheet p.8)
const DefaultSPISpeed = 8000000

// Transport moves bytes between the MCU and the chip. A device picks one
// transport at construction and keeps it for its lifetime.
//
// TransferByte is full duplex and blocking: it either clocks all 8 bits or
// does not return.
type Transport interface {
	// Configure prepares the lines or peripheral; called once from Begin.
	Configure() error

	// BeginTransaction and EndTransaction bracket the bytes of one
	// register access while the select line is asserted.
	BeginTransaction()
	EndTransaction()

	TransferByte(tx byte) byte
}

// HardwareTransport drives a hardware SPI peripheral
type HardwareTransport struct {
	bus      core.SPIBus
	settings core.SPISettings
}

// NewHardwareTransport returns a mode 0, MSB first transport at
// DefaultSPISpeed on bus.
func NewHardwareTransport(bus core.SPIBus) *HardwareTransport {
	return &HardwareTransport{
		bus: bus,
		settings: core.SPISettings{
			Frequency: DefaultSPISpeed,
			BitOrder:  core.MSBFirst,
			Mode:      core.SPIMode0,
		},
	}
}

// Optional core.SPIBus capabilities. A bus that can apply settings outside
// a transaction lets speed changes be checked when they are made.
type settingsApplier interface {
	Apply(settings core.SPISettings) error
}

type errorRecorder interface {
	Err() error
}

// Configure checks that a bus is attached and programs it with the current
// settings when the bus supports that.
func (t *HardwareTransport) Configure() error {
	if t.bus == nil {
		return ErrNoBus
	}
	if a, ok := t.bus.(settingsApplier); ok {
		return a.Apply(t.settings)
	}
	return nil
}

// BeginTransaction applies this device's settings to the shared bus
func (t *HardwareTransport) BeginTransaction() {
	t.bus.BeginTransaction(t.settings)
}

// EndTransaction releases the shared bus
func (t *HardwareTransport) EndTransaction() {
	t.bus.EndTransaction()
}

// TransferByte exchanges one byte on the bus
func (t *HardwareTransport) TransferByte(tx byte) byte {
	return t.bus.Transfer(tx)
}

// SetSpeed changes the clock rate. When the bus can apply settings the
// new rate is programmed now, and a rejected rate leaves the old one in
// place.
func (t *HardwareTransport) SetSpeed(hz uint32) error {
	next := t.settings
	next.Frequency = hz
	if a, ok := t.bus.(settingsApplier); ok {
		if err := a.Apply(next); err != nil {
			return err
		}
	}
	t.settings = next
	return nil
}

// Speed returns the configured clock rate in Hz
func (t *HardwareTransport) Speed() uint32 {
	return t.settings.Frequency
}

// Err returns and clears the last failure recorded by the bus, or nil when
// the bus does not record failures.
func (t *HardwareTransport) Err() error {
	if r, ok := t.bus.(errorRecorder); ok {
		return r.Err()
	}
	return nil
}

// SoftwareTransport bit-bangs SPI mode 0 on three GPIO lines.
//
// There is no delay between line changes. The chip is rated for 10 MHz, so
// this only works while the MCU toggles its pins slower than that; on
// faster parts a hardware transport is required.
type SoftwareTransport struct {
	gpio    core.GPIODriver
	clock   core.GPIOPin
	dataOut core.GPIOPin // MOSI, to chip SI
	dataIn  core.GPIOPin // MISO, from chip SO

	err error // first line failure since the last Err
}

// NewSoftwareTransport returns a transport clocking clock, writing dataOut
// and sampling dataIn.
func NewSoftwareTransport(gpio core.GPIODriver, clock, dataOut, dataIn core.GPIOPin) *SoftwareTransport {
	return &SoftwareTransport{
		gpio:    gpio,
		clock:   clock,
		dataOut: dataOut,
		dataIn:  dataIn,
	}
}

// Configure sets the line directions and idles clock and data low
func (t *SoftwareTransport) Configure() error {
	if err := t.gpio.ConfigureInput(t.dataIn); err != nil {
		return err
	}
	if err := t.gpio.ConfigureOutput(t.dataOut); err != nil {
		return err
	}
	if err := t.gpio.ConfigureOutput(t.clock); err != nil {
		return err
	}
	if err := t.gpio.SetPin(t.dataOut, false); err != nil {
		return err
	}
	return t.gpio.SetPin(t.clock, false)
}

// BeginTransaction is a no-op; the lines belong to this device alone.
func (t *SoftwareTransport) BeginTransaction() {}

// EndTransaction is a no-op.
func (t *SoftwareTransport) EndTransaction() {}

// TransferByte clocks 8 bits, MSB first: set data out, raise clock,
// sample data in, lower clock. A byte always runs to completion; the first
// line failure is logged and kept for Err.
func (t *SoftwareTransport) TransferByte(tx byte) byte {
	var rx byte
	var first error
	check := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	for mask := byte(0x80); mask > 0; mask >>= 1 {
		check(t.gpio.SetPin(t.dataOut, tx&mask != 0))
		check(t.gpio.SetPin(t.clock, true))
		level, err := t.gpio.GetPin(t.dataIn)
		check(err)
		if level {
			rx |= mask
		}
		check(t.gpio.SetPin(t.clock, false))
	}

	if first != nil {
		core.DebugPrintln("mcp23s17: bit-bang " + core.Hex8(tx) + " failed: " + first.Error())
		if t.err == nil {
			t.err = first
		}
	}
	return rx
}

// Err returns and clears the first line failure seen since the last call
func (t *SoftwareTransport) Err() error {
	err := t.err
	t.err = nil
	return err
}
