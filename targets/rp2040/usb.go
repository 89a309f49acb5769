//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication.
// On RP2040/RP2350 machine.Serial is USB CDC; descriptors come from TinyGo's runtime.
func InitUSB() error {
	return machine.Serial.Configure(machine.UARTConfig{})
}

// USBAvailable returns the number of bytes available to read from USB
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte from USB
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// usbWriter sends console output to the USB serial port
type usbWriter struct{}

func (usbWriter) Write(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
