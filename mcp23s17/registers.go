package mcp23s17

// MCP23S17 register map, IOCON.BANK = 0 layout.
// Every function has an A register immediately followed by its B register.

// Register is an 8-bit register address on the chip
type Register uint8

const (
	IODIRA   Register = 0x00 // I/O direction, 1 = input
	IODIRB   Register = 0x01
	IPOLA    Register = 0x02 // Input polarity, 1 = inverted
	IPOLB    Register = 0x03
	GPINTENA Register = 0x04 // Interrupt-on-change enable
	GPINTENB Register = 0x05
	DEFVALA  Register = 0x06 // Default compare value for interrupt-on-change
	DEFVALB  Register = 0x07
	INTCONA  Register = 0x08 // Interrupt-on-change control
	INTCONB  Register = 0x09
	IOCON    Register = 0x0A // I/O configuration (0x0B is a mirror)
	IOCONB   Register = 0x0B
	GPPUA    Register = 0x0C // Pull-up enable, 1 = 100k pull-up
	GPPUB    Register = 0x0D
	INTFA    Register = 0x0E // Interrupt flags (read only)
	INTFB    Register = 0x0F
	INTCAPA  Register = 0x10 // Interrupt capture (read only)
	INTCAPB  Register = 0x11
	GPIOA    Register = 0x12 // Port value; writes go to the output latch
	GPIOB    Register = 0x13
	OLATA    Register = 0x14 // Output latch
	OLATB    Register = 0x15

	// MaxRegister is the highest addressable register
	MaxRegister = OLATB
)

// Valid reports whether r is inside the register file
func (r Register) Valid() bool {
	return r <= MaxRegister
}

// IOCON bits
const (
	IOCONIntPol = 0x02 // INT output polarity
	IOCONODR    = 0x04 // INT pin open-drain
	IOCONHAEN   = 0x08 // Hardware address enable
	IOCONDISSLW = 0x10 // Slew rate disable
	IOCONSEQOP  = 0x20 // Sequential operation disabled (no auto-increment)
	IOCONMirror = 0x40 // INTA/INTB mirrored
	IOCONBank   = 0x80 // Register bank layout
)

// Opcode bytes; the pre-shifted hardware address is OR'd in
const (
	opWrite = 0x40
	opRead  = 0x41

	readFiller = 0xFF
)

// Port selects one 8-bit half of the 16 I/O pins
type Port uint8

const (
	PortA Port = 0
	PortB Port = 1
)

// Valid reports whether p names port A or B
func (p Port) Valid() bool {
	return p <= PortB
}

// NumPins is the number of I/O pins on the chip
const NumPins = 16

// pinValid reports whether pin is 0-15
func pinValid(pin uint8) bool {
	return pin < NumPins
}

// bank is the A register of a register pair; B is always bank+1
type bank Register

const (
	bankDir  = bank(IODIRA)
	bankPol  = bank(IPOLA)
	bankPull = bank(GPPUA)
	bankGPIO = bank(GPIOA)
)

// forPort returns the register of the pair for port p
func (b bank) forPort(p Port) Register {
	return Register(b) + Register(p)
}

// forPin returns the register holding pin and the pin's bit mask in it
func (b bank) forPin(pin uint8) (Register, uint8) {
	if pin > 7 {
		return Register(b) + 1, 1 << (pin - 8)
	}
	return Register(b), 1 << pin
}

// word returns the A register used as the base of a 16-bit access
func (b bank) word() Register {
	return Register(b)
}
