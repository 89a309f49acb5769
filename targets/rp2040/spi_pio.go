//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"tinyperiph/config"
	"tinyperiph/core"
)

var errPIOSettings = errors.New("PIO SPI supports mode 0 MSB first only")

// newPIOSPIBus runs the expander bus on a PIO state machine over any three
// GPIOs.
func newPIOSPIBus(cfg *config.ExpanderConfig) (core.SPIBus, error) {
	pins, err := expanderSPIPins(cfg)
	if err != nil {
		return nil, err
	}

	sm, err := rp2pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}

	spi, err := piolib.NewSPI(sm, machine.SPIConfig{
		Frequency: cfg.SPISpeed,
		SCK:       pins.sck,
		SDO:       pins.sdo,
		SDI:       pins.sdi,
		Mode:      0,
	})
	if err != nil {
		sm.Unclaim()
		return nil, err
	}

	// The program is fixed at load time; only the clock divider can change
	configure := func(s core.SPISettings) error {
		if s.Mode != core.SPIMode0 || s.BitOrder != core.MSBFirst {
			return errPIOSettings
		}
		whole, frac, err := rp2pio.ClkDivFromFrequency(s.Frequency, machine.CPUFrequency())
		if err != nil {
			return err
		}
		sm.SetClkDiv(whole, frac)
		return nil
	}
	return core.NewDriversSPIBus(spi, configure), nil
}
