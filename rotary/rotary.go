// Package rotary decodes up to four quadrature rotary encoders wired to an
// 8-bit I2C port expander (PCF8574 style). Each encoder takes two adjacent
// bits of the port: encoder 0 on bits 0-1, encoder 1 on bits 2-3 and so on.
//
// The decoder is polled. Call Update (or UpdateSingle for encoders that
// only turn one way) often enough that no more than one quadrature step is
// missed between calls.
package rotary

import (
	"errors"

	"tinygo.org/x/drivers"

	"tinyperiph/core"
)

// MaxEncoders is the number of encoders one 8-bit port can carry
const MaxEncoders = 4

var (
	ErrNotConnected = errors.New("rotary: device not responding")
	ErrNoBus        = errors.New("rotary: no I2C bus")
)

// Device is a set of encoders behind one I2C port expander
type Device struct {
	bus     drivers.I2C
	address uint16
	count   uint8

	lastValue uint8
	lastPos   [MaxEncoders]uint8
	encoder   [MaxEncoders]int32

	buf [1]byte
}

// New returns a decoder for the expander at address on bus
func New(bus drivers.I2C, address uint16) *Device {
	return &Device{
		bus:     bus,
		address: address,
		count:   MaxEncoders,
	}
}

// Begin sets the number of encoders (clamped to 1-4) and checks that the
// expander answers.
func (d *Device) Begin(count uint8) error {
	if count < 1 {
		count = 1
	}
	if count > MaxEncoders {
		count = MaxEncoders
	}
	d.count = count

	if d.bus == nil {
		return ErrNoBus
	}
	if !d.IsConnected() {
		return ErrNotConnected
	}
	core.DebugPrintln("rotary: " + core.Utoa(uint32(count)) + " encoders at " + core.Hex8(uint8(d.address)))
	return nil
}

// IsConnected reports whether the expander acknowledges its address
func (d *Device) IsConnected() bool {
	return core.ProbeI2C(d.bus, core.I2CAddress(d.address))
}

// Count returns the number of encoders being decoded
func (d *Device) Count() uint8 {
	return d.count
}

// read8 reads the expander's port byte
func (d *Device) read8() (uint8, error) {
	if d.bus == nil {
		return 0, ErrNoBus
	}
	if err := d.bus.Tx(d.address, nil, d.buf[:]); err != nil {
		return 0, err
	}
	core.RecordBusEvent(core.EvtI2CRead, uint8(d.address), 0, uint16(d.buf[0]))
	return d.buf[0], nil
}

// ReadInitialState latches the current port state as the reference for
// the next Update without counting anything.
func (d *Device) ReadInitialState() error {
	value, err := d.read8()
	if err != nil {
		return err
	}
	d.lastValue = value
	for i := uint8(0); i < d.count; i++ {
		d.lastPos[i] = value & 0x03
		value >>= 2
	}
	return nil
}

// CheckChange reports whether the port differs from the last decoded
// state. It is one bus read and does not update any counter.
func (d *Device) CheckChange() (bool, error) {
	value, err := d.read8()
	if err != nil {
		return false, err
	}
	return value != d.lastValue, nil
}

// Update reads the port and applies one quadrature step per encoder,
// +1 clockwise and -1 counter clockwise. Transitions that skip a state
// are ignored. It reports whether the port changed.
func (d *Device) Update() (bool, error) {
	return d.update(stepBidirectional)
}

// UpdateSingle is Update for encoders that only turn one way: every
// transition counts up, and a skipped state counts as two steps.
func (d *Device) UpdateSingle() (bool, error) {
	return d.update(stepSingle)
}

func (d *Device) update(step func(change uint8) int32) (bool, error) {
	value, err := d.read8()
	if err != nil {
		return false, err
	}
	if value == d.lastValue {
		return false, nil
	}
	d.lastValue = value

	for i := uint8(0); i < d.count; i++ {
		pos := value & 0x03
		value >>= 2
		d.encoder[i] += step(d.lastPos[i]<<2 | pos)
		d.lastPos[i] = pos
	}
	return true, nil
}

// stepBidirectional maps a (previous<<2 | current) transition to a step
func stepBidirectional(change uint8) int32 {
	switch change {
	case 0b0001, 0b0111, 0b1110, 0b1000:
		return 1
	case 0b0010, 0b1011, 0b1101, 0b0100:
		return -1
	}
	return 0
}

func stepSingle(change uint8) int32 {
	switch change {
	case 0b0001, 0b0111, 0b1110, 0b1000,
		0b0010, 0b1011, 0b1101, 0b0100:
		return 1
	case 0b0011, 0b0110, 0b1001, 0b1100:
		return 2
	}
	return 0
}

// Value returns the count of encoder re, or 0 for an unknown encoder
func (d *Device) Value(re uint8) int32 {
	if re >= d.count {
		return 0
	}
	return d.encoder[re]
}

// SetValue overwrites the count of encoder re
func (d *Device) SetValue(re uint8, value int32) {
	if re >= d.count {
		return
	}
	d.encoder[re] = value
}

// LastPosition returns the last 2-bit quadrature state of encoder re
func (d *Device) LastPosition(re uint8) uint8 {
	if re >= d.count {
		return 0
	}
	return d.lastPos[re]
}
