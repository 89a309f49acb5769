package mcp23s17

import "errors"

// Error is a driver status code. The zero value OK means no error; every
// other value also satisfies the error interface so it can be returned
// directly from API calls.
type Error uint8

const (
	OK          Error = 0x00
	ErrPin      Error = 0x81 // pin outside 0-15
	ErrValue    Error = 0x83 // unsupported pin mode
	ErrPort     Error = 0x84 // port outside 0-1
	ErrRegister Error = 0xFF // register outside the register file
)

func (e Error) Error() string {
	switch e {
	case OK:
		return "mcp23s17: ok"
	case ErrPin:
		return "mcp23s17: pin out of range"
	case ErrValue:
		return "mcp23s17: invalid value"
	case ErrPort:
		return "mcp23s17: port out of range"
	case ErrRegister:
		return "mcp23s17: invalid register"
	default:
		return "mcp23s17: unknown error"
	}
}

// ErrNotHardware is returned by bus speed configuration on a device that
// uses the bit-banged transport.
var ErrNotHardware = errors.New("mcp23s17: transport is not hardware SPI")

// ErrNoBus is returned by Begin when the hardware transport has no bus.
var ErrNoBus = errors.New("mcp23s17: no SPI bus")
