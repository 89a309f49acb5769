package mcp23s17

// 8-bit interface: one whole port register per call, no read-modify-write.
// port = 0 (A) or 1 (B).

// PinMode8 sets the direction of all 8 pins of port; 1 bits are inputs
func (d *Device) PinMode8(port Port, mask uint8) error {
	return d.writePort(bankDir, port, mask)
}

// Write8 sets the output levels of port
func (d *Device) Write8(port Port, value uint8) error {
	return d.writePort(bankGPIO, port, value)
}

// Read8 returns the pin levels of port
func (d *Device) Read8(port Port) (uint8, error) {
	return d.readPort(bankGPIO, port)
}

// SetPolarity8 sets the input inversion mask of port
func (d *Device) SetPolarity8(port Port, mask uint8) error {
	return d.writePort(bankPol, port, mask)
}

// GetPolarity8 returns the input inversion mask of port
func (d *Device) GetPolarity8(port Port) (uint8, error) {
	return d.readPort(bankPol, port)
}

// SetPullup8 sets the pull-up mask of port
func (d *Device) SetPullup8(port Port, mask uint8) error {
	return d.writePort(bankPull, port, mask)
}

// GetPullup8 returns the pull-up mask of port
func (d *Device) GetPullup8(port Port) (uint8, error) {
	return d.readPort(bankPull, port)
}

func (d *Device) writePort(b bank, port Port, value uint8) error {
	d.err = OK
	if !port.Valid() {
		return d.reject(ErrPort)
	}
	return d.writeReg(b.forPort(port), value)
}

func (d *Device) readPort(b bank, port Port) (uint8, error) {
	d.err = OK
	if !port.Valid() {
		return 0, d.reject(ErrPort)
	}
	return d.readReg(b.forPort(port))
}
