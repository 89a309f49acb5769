//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"

	"tinyperiph/config"
	"tinyperiph/rotary"
)

var errI2CBus = errors.New("unsupported I2C bus ID")

// newRotary configures the I2C bus and the rotary decoder behind it
func newRotary(cfg *config.RotaryConfig) (*rotary.Device, error) {
	var i2c *machine.I2C
	switch cfg.I2CBus {
	case 0:
		i2c = machine.I2C0
	case 1:
		i2c = machine.I2C1
	default:
		return nil, errI2CBus
	}

	sda, err := config.ParsePin(cfg.SDAPin)
	if err != nil {
		return nil, err
	}
	scl, err := config.ParsePin(cfg.SCLPin)
	if err != nil {
		return nil, err
	}

	err = i2c.Configure(machine.I2CConfig{
		Frequency: cfg.Frequency,
		SDA:       machine.Pin(sda),
		SCL:       machine.Pin(scl),
	})
	if err != nil {
		return nil, err
	}

	d := rotary.New(i2c, cfg.Address)
	if err := d.Begin(cfg.Count); err != nil {
		return nil, err
	}
	if err := d.ReadInitialState(); err != nil {
		return nil, err
	}
	return d, nil
}
