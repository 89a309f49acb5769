package mcp23s17

// 16-bit interface: the high byte maps to port A, the low byte to port B.

// PinMode16 sets the direction of all 16 pins; 1 bits are inputs
func (d *Device) PinMode16(mask uint16) error {
	return d.writeReg16(bankDir.word(), mask)
}

// Write16 sets the output levels of all 16 pins
func (d *Device) Write16(value uint16) error {
	return d.writeReg16(bankGPIO.word(), value)
}

// Read16 returns the levels of all 16 pins
func (d *Device) Read16() (uint16, error) {
	return d.readReg16(bankGPIO.word())
}

// SetPolarity16 sets the input inversion mask of all 16 pins
func (d *Device) SetPolarity16(mask uint16) error {
	return d.writeReg16(bankPol.word(), mask)
}

// GetPolarity16 returns the input inversion mask of all 16 pins
func (d *Device) GetPolarity16() (uint16, error) {
	return d.readReg16(bankPol.word())
}

// SetPullup16 sets the pull-up mask of all 16 pins
func (d *Device) SetPullup16(mask uint16) error {
	return d.writeReg16(bankPull.word(), mask)
}

// GetPullup16 returns the pull-up mask of all 16 pins
func (d *Device) GetPullup16() (uint16, error) {
	return d.readReg16(bankPull.word())
}
