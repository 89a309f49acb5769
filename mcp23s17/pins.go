package mcp23s17

// PinMode is the direction of a single pin, numbered like Arduino's
// INPUT, OUTPUT and INPUT_PULLUP.
type PinMode uint8

const (
	Input       PinMode = 0
	Output      PinMode = 1
	InputPullup PinMode = 2 // same as Input; pull-ups are set with SetPullup
)

// valid reports whether m is one of the modelled modes
func (m PinMode) valid() bool {
	return m == Input || m == Output || m == InputPullup
}

// withBits returns v with mask set when on, cleared otherwise
func withBits(v, mask uint8, on bool) uint8 {
	if on {
		return v | mask
	}
	return v &^ mask
}

// PinMode sets the direction of pin (0-15)
func (d *Device) PinMode(pin uint8, mode PinMode) error {
	d.err = OK
	if !pinValid(pin) {
		return d.reject(ErrPin)
	}
	if !mode.valid() {
		return d.reject(ErrValue)
	}

	reg, mask := bankDir.forPin(pin)
	val, err := d.readReg(reg)
	if err != nil {
		return err
	}
	// IODIR: 1 = input, 0 = output
	return d.writeReg(reg, withBits(val, mask, mode != Output))
}

// DigitalWrite drives pin high or low. The port register is only written
// when the pin's level actually changes.
func (d *Device) DigitalWrite(pin uint8, value bool) error {
	d.err = OK
	if !pinValid(pin) {
		return d.reject(ErrPin)
	}

	reg, mask := bankGPIO.forPin(pin)
	pre, err := d.readReg(reg)
	if err != nil {
		return err
	}

	val := withBits(pre, mask, value)
	if val == pre {
		return nil
	}
	return d.writeReg(reg, val)
}

// DigitalRead returns the level of pin
func (d *Device) DigitalRead(pin uint8) (bool, error) {
	return d.getPinBit(bankGPIO, pin)
}

// SetPolarity inverts (reversed = true) or restores the input sense of pin
func (d *Device) SetPolarity(pin uint8, reversed bool) error {
	return d.setPinBit(bankPol, pin, reversed)
}

// GetPolarity reports whether the input sense of pin is inverted
func (d *Device) GetPolarity(pin uint8) (bool, error) {
	return d.getPinBit(bankPol, pin)
}

// SetPullup enables or disables the 100k pull-up on pin
func (d *Device) SetPullup(pin uint8, pullup bool) error {
	return d.setPinBit(bankPull, pin, pullup)
}

// GetPullup reports whether the pull-up on pin is enabled
func (d *Device) GetPullup(pin uint8) (bool, error) {
	return d.getPinBit(bankPull, pin)
}

// setPinBit read-modify-writes pin's bit in the b register pair
func (d *Device) setPinBit(b bank, pin uint8, on bool) error {
	d.err = OK
	if !pinValid(pin) {
		return d.reject(ErrPin)
	}

	reg, mask := b.forPin(pin)
	val, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, withBits(val, mask, on))
}

// getPinBit reads pin's bit from the b register pair
func (d *Device) getPinBit(b bank, pin uint8) (bool, error) {
	d.err = OK
	if !pinValid(pin) {
		return false, d.reject(ErrPin)
	}

	reg, mask := b.forPin(pin)
	val, err := d.readReg(reg)
	if err != nil {
		return false, err
	}
	return val&mask != 0, nil
}
