package mcp23s17

import (
	"tinyperiph/core"
)

// Every register access is one select cycle carrying three bytes:
// opcode, register address, data (0xFF filler when reading).
// Validation happens before the select line is touched.

// selectChip asserts the active-low select line
func (d *Device) selectChip() {
	if err := d.gpio.SetPin(d.sel, false); err != nil {
		core.DebugPrintln("mcp23s17: select failed: " + err.Error())
	}
}

// deselectChip releases the select line, ending the chip's transaction
func (d *Device) deselectChip() {
	if err := d.gpio.SetPin(d.sel, true); err != nil {
		core.DebugPrintln("mcp23s17: deselect failed: " + err.Error())
	}
}

// exchange runs one framed 3-byte access and returns the byte received
// during the data slot.
func (d *Device) exchange(op byte, reg Register, data byte) byte {
	d.selectChip()
	defer d.deselectChip()

	d.transport.BeginTransaction()
	defer d.transport.EndTransaction()

	d.transport.TransferByte(op | d.address)
	d.transport.TransferByte(byte(reg))
	return d.transport.TransferByte(data)
}

// reject records e in the error slot without touching the bus
func (d *Device) reject(e Error) Error {
	d.err = e
	core.RecordBusEvent(core.EvtRejected, d.Address(), 0, uint16(e))
	return e
}

func (d *Device) writeReg(reg Register, value uint8) error {
	d.err = OK

	if !reg.Valid() {
		return d.reject(ErrRegister)
	}

	d.exchange(opWrite, reg, value)

	core.RecordBusEvent(core.EvtRegWrite, d.Address(), uint8(reg), uint16(value))
	if core.IsDebugEnabled() {
		core.DebugPrintln("mcp23s17 wr reg=" + core.Hex8(uint8(reg)) + " val=" + core.Hex8(value))
	}
	return nil
}

func (d *Device) readReg(reg Register) (uint8, error) {
	d.err = OK

	if !reg.Valid() {
		return 0, d.reject(ErrRegister)
	}

	value := d.exchange(opRead, reg, readFiller)

	core.RecordBusEvent(core.EvtRegRead, d.Address(), uint8(reg), uint16(value))
	if core.IsDebugEnabled() {
		core.DebugPrintln("mcp23s17 rd reg=" + core.Hex8(uint8(reg)) + " val=" + core.Hex8(value))
	}
	return value, nil
}

// writeReg16 writes the high byte to reg and the low byte to reg+1, each in
// its own select cycle. Chips on the bus rely on this exact framing.
func (d *Device) writeReg16(reg Register, value uint16) error {
	d.err = OK

	if !reg.Valid() || !(reg + 1).Valid() {
		return d.reject(ErrRegister)
	}

	d.exchange(opWrite, reg, uint8(value>>8))
	d.exchange(opWrite, reg+1, uint8(value))

	core.RecordBusEvent(core.EvtRegWrite16, d.Address(), uint8(reg), value)
	if core.IsDebugEnabled() {
		core.DebugPrintln("mcp23s17 wr16 reg=" + core.Hex8(uint8(reg)) + " val=" + core.Hex16(value))
	}
	return nil
}

// readReg16 reads the high byte from reg and the low byte from reg+1
func (d *Device) readReg16(reg Register) (uint16, error) {
	d.err = OK

	if !reg.Valid() || !(reg + 1).Valid() {
		return 0, d.reject(ErrRegister)
	}

	value := uint16(d.exchange(opRead, reg, readFiller)) << 8
	value |= uint16(d.exchange(opRead, reg+1, readFiller))

	core.RecordBusEvent(core.EvtRegRead16, d.Address(), uint8(reg), value)
	if core.IsDebugEnabled() {
		core.DebugPrintln("mcp23s17 rd16 reg=" + core.Hex8(uint8(reg)) + " val=" + core.Hex16(value))
	}
	return value, nil
}
