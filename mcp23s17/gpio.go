package mcp23s17

import (
	"tinyperiph/core"
)

// expanderPins presents the 16 expander pins through the core GPIO HAL, so
// anything written against core.GPIODriver (including another device's
// select line or a bit-banged bus) can run on expander pins.
type expanderPins struct {
	d *Device
}

// Pins returns a core.GPIODriver for the expander's pins 0-15
func (d *Device) Pins() core.GPIODriver {
	return expanderPins{d: d}
}

// pinNumber narrows a HAL pin to the expander range; out of range numbers
// stay out of range so the driver reports ErrPin.
func pinNumber(pin core.GPIOPin) uint8 {
	if pin >= NumPins {
		return NumPins
	}
	return uint8(pin)
}

func (p expanderPins) ConfigureOutput(pin core.GPIOPin) error {
	return p.d.PinMode(pinNumber(pin), Output)
}

func (p expanderPins) ConfigureInput(pin core.GPIOPin) error {
	if err := p.d.PinMode(pinNumber(pin), Input); err != nil {
		return err
	}
	return p.d.SetPullup(pinNumber(pin), false)
}

func (p expanderPins) ConfigureInputPullUp(pin core.GPIOPin) error {
	if err := p.d.PinMode(pinNumber(pin), InputPullup); err != nil {
		return err
	}
	return p.d.SetPullup(pinNumber(pin), true)
}

func (p expanderPins) SetPin(pin core.GPIOPin, value bool) error {
	return p.d.DigitalWrite(pinNumber(pin), value)
}

func (p expanderPins) GetPin(pin core.GPIOPin) (bool, error) {
	return p.d.DigitalRead(pinNumber(pin))
}
