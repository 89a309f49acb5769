// Package linuxio runs the expander driver directly on a Linux board
// (Raspberry Pi and similar) through periph.io, with the select line on a
// host GPIO and the bus on a spidev port.
package linuxio

import (
	"fmt"

	"periph.io/x/host/v3"
)

// Init loads the periph host drivers. It must run before OpenSPI or any
// pin lookup.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialise periph host drivers: %w", err)
	}
	return nil
}
