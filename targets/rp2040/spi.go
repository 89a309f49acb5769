//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"tinyperiph/config"
	"tinyperiph/core"
	"tinyperiph/mcp23s17"
)

// spiControllers maps the configured bus index to a controller
var spiControllers = []*machine.SPI{machine.SPI0, machine.SPI1}

var errSPIBus = errors.New("invalid SPI bus index")

// spiPins are the pins one SPI bus is muxed onto
type spiPins struct {
	sck, sdo, sdi machine.Pin
}

func expanderSPIPins(cfg *config.ExpanderConfig) (spiPins, error) {
	var pins spiPins
	for _, p := range []struct {
		name string
		pin  *machine.Pin
	}{
		{cfg.ClockPin, &pins.sck},
		{cfg.DataOut, &pins.sdo},
		{cfg.DataIn, &pins.sdi},
	} {
		n, err := config.ParsePin(p.name)
		if err != nil {
			return pins, err
		}
		*p.pin = machine.Pin(n)
	}
	return pins, nil
}

// newHardwareSPIBus returns a core.SPIBus on one of the SPI controllers.
// The controller is reprogrammed whenever a device asks for different settings.
func newHardwareSPIBus(cfg *config.ExpanderConfig) (core.SPIBus, error) {
	if cfg.SPIBus < 0 || cfg.SPIBus >= len(spiControllers) {
		return nil, errSPIBus
	}
	spi := spiControllers[cfg.SPIBus]
	pins, err := expanderSPIPins(cfg)
	if err != nil {
		return nil, err
	}

	configure := func(s core.SPISettings) error {
		// Configure SPI with TinyGo's machine.SPIConfig
		return spi.Configure(machine.SPIConfig{
			Frequency: s.Frequency,
			SCK:       pins.sck,
			SDO:       pins.sdo, // SDO = Serial Data Out (MOSI)
			SDI:       pins.sdi, // SDI = Serial Data In (MISO)
			LSBFirst:  s.BitOrder == core.LSBFirst,
			Mode:      uint8(s.Mode),
		})
	}
	return core.NewDriversSPIBus(spi, configure), nil
}

// newExpander builds the MCP23S17 driver on the configured transport
func newExpander(cfg *config.ExpanderConfig, gpio core.GPIODriver) (*mcp23s17.Device, error) {
	sel, err := config.ParsePin(cfg.SelectPin)
	if err != nil {
		return nil, err
	}

	switch cfg.Transport {
	case config.TransportHardware:
		bus, err := newHardwareSPIBus(cfg)
		if err != nil {
			return nil, err
		}
		d := mcp23s17.NewHardware(gpio, sel, cfg.Address, bus)
		if err := d.SetSPISpeed(cfg.SPISpeed); err != nil {
			return nil, err
		}
		return d, nil

	case config.TransportPIO:
		bus, err := newPIOSPIBus(cfg)
		if err != nil {
			return nil, err
		}
		d := mcp23s17.NewHardware(gpio, sel, cfg.Address, bus)
		if err := d.SetSPISpeed(cfg.SPISpeed); err != nil {
			return nil, err
		}
		return d, nil

	case config.TransportSoftware:
		pins, err := expanderSPIPins(cfg)
		if err != nil {
			return nil, err
		}
		return mcp23s17.NewSoftware(gpio, sel,
			core.GPIOPin(pins.sdi), core.GPIOPin(pins.sdo), core.GPIOPin(pins.sck),
			cfg.Address), nil
	}
	return nil, config.ErrTransport
}
