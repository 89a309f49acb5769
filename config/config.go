package config

import (
	"encoding/json"
	"errors"

	"tinyperiph/core"
)

var (
	ErrTransport   = errors.New("config: unknown expander transport")
	ErrAddress     = errors.New("config: expander address must be 0-7")
	ErrPinName     = errors.New("config: bad pin name")
	ErrNoSelect    = errors.New("config: expander select pin missing")
	ErrMissingPin  = errors.New("config: expander needs clock, data out and data in pins")
	ErrSPISpeed    = errors.New("config: SPI speed above 10 MHz")
	ErrSPIBus      = errors.New("config: SPI bus must be 0 or 1")
	ErrRotaryAddr  = errors.New("config: rotary address must be 7-bit")
	ErrRotaryCount = errors.New("config: rotary count must be 1-4")
	ErrI2CBus      = errors.New("config: I2C bus must be 0 or 1")
)

const (
	// MaxSPISpeed is the fastest clock the MCP23S17 is rated for
	MaxSPISpeed = 10000000

	// Highest controller index on the RP2040/RP2350
	MaxSPIBus = 1
	MaxI2CBus = 1
)

// LoadConfig parses a JSON configuration and returns a validated BoardConfig
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var config BoardConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *BoardConfig) {
	exp := &config.Expander
	if exp.Transport == "" {
		exp.Transport = TransportHardware
	}
	if exp.SelectPin == "" {
		exp.SelectPin = "gpio17"
	}
	if exp.ClockPin == "" {
		exp.ClockPin = "gpio18"
	}
	if exp.DataOut == "" {
		exp.DataOut = "gpio19"
	}
	if exp.DataIn == "" {
		exp.DataIn = "gpio16"
	}
	if exp.SPISpeed == 0 {
		exp.SPISpeed = 8000000 // 8 MHz
	}

	rot := &config.Rotary
	if rot.Address == 0 {
		rot.Address = 0x20 // PCF8574 with A2..A0 low
	}
	if rot.Count == 0 {
		rot.Count = 4
	}
	if rot.Frequency == 0 {
		rot.Frequency = 100000 // 100 kHz
	}
	if rot.SDAPin == "" {
		rot.SDAPin = "gpio4"
	}
	if rot.SCLPin == "" {
		rot.SCLPin = "gpio5"
	}
}

// Validate checks the configuration for values the drivers cannot use
func (c *BoardConfig) Validate() error {
	exp := c.Expander

	switch exp.Transport {
	case TransportHardware, TransportPIO, TransportSoftware:
	default:
		return ErrTransport
	}
	if exp.Address > 7 {
		return ErrAddress
	}
	if exp.SelectPin == "" {
		return ErrNoSelect
	}
	if _, err := ParsePin(exp.SelectPin); err != nil {
		return err
	}
	if exp.SPISpeed > MaxSPISpeed {
		return ErrSPISpeed
	}
	if exp.SPIBus < 0 || exp.SPIBus > MaxSPIBus {
		return ErrSPIBus
	}

	// Every transport muxes or bit-bangs the same three lines
	for _, name := range []string{exp.ClockPin, exp.DataOut, exp.DataIn} {
		if name == "" {
			return ErrMissingPin
		}
		if _, err := ParsePin(name); err != nil {
			return err
		}
	}

	if c.Rotary.Enabled {
		rot := c.Rotary
		if rot.Address > 0x7F {
			return ErrRotaryAddr
		}
		if rot.Count < 1 || rot.Count > 4 {
			return ErrRotaryCount
		}
		if rot.I2CBus < 0 || rot.I2CBus > MaxI2CBus {
			return ErrI2CBus
		}
		if _, err := ParsePin(rot.SDAPin); err != nil {
			return err
		}
		if _, err := ParsePin(rot.SCLPin); err != nil {
			return err
		}
	}
	return nil
}

// ParsePin converts a "gpioN" pin name to its number
func ParsePin(name string) (core.GPIOPin, error) {
	const prefix = "gpio"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return 0, ErrPinName
	}
	n, err := core.ParseUint(name[len(prefix):], 8)
	if err != nil {
		return 0, ErrPinName
	}
	return core.GPIOPin(n), nil
}

// DefaultBoardConfig returns the wiring of the reference board: MCP23S17 on
// SPI0 (SCK gpio18, MOSI gpio19, MISO gpio16, CS gpio17) and no rotary
// decoder.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Expander: ExpanderConfig{
			Transport: TransportHardware,
			Address:   0,
			SelectPin: "gpio17",
			ClockPin:  "gpio18",
			DataOut:   "gpio19",
			DataIn:    "gpio16",
			SPIBus:    0,
			SPISpeed:  8000000,
		},
		Rotary: RotaryConfig{
			Enabled:   false,
			Address:   0x20,
			Count:     4,
			I2CBus:    0,
			SDAPin:    "gpio4",
			SCLPin:    "gpio5",
			Frequency: 100000,
		},
	}
}
