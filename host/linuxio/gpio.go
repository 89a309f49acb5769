package linuxio

import (
	"errors"
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"tinyperiph/core"
)

var ErrNoPin = errors.New("linuxio: no such GPIO")

// PinLookup resolves a pin number to a periph pin, or nil
type PinLookup func(name string) gpio.PinIO

// Pins implements core.GPIODriver on host GPIOs
type Pins struct {
	lookup PinLookup
	pins   map[core.GPIOPin]gpio.PinIO
}

// NewPins returns a driver resolving pin numbers through lookup. A nil
// lookup uses the periph GPIO registry.
func NewPins(lookup PinLookup) *Pins {
	if lookup == nil {
		lookup = gpioreg.ByName
	}
	return &Pins{
		lookup: lookup,
		pins:   make(map[core.GPIOPin]gpio.PinIO),
	}
}

func (p *Pins) pin(n core.GPIOPin) (gpio.PinIO, error) {
	if io, ok := p.pins[n]; ok {
		return io, nil
	}
	io := p.lookup(strconv.Itoa(int(n)))
	if io == nil {
		return nil, ErrNoPin
	}
	p.pins[n] = io
	return io, nil
}

// ConfigureOutput makes pin an output, keeping its current level
func (p *Pins) ConfigureOutput(n core.GPIOPin) error {
	io, err := p.pin(n)
	if err != nil {
		return err
	}
	return io.Out(io.Read())
}

// ConfigureInput makes pin a floating input
func (p *Pins) ConfigureInput(n core.GPIOPin) error {
	io, err := p.pin(n)
	if err != nil {
		return err
	}
	return io.In(gpio.Float, gpio.NoEdge)
}

// ConfigureInputPullUp makes pin an input with the pull-up enabled
func (p *Pins) ConfigureInputPullUp(n core.GPIOPin) error {
	io, err := p.pin(n)
	if err != nil {
		return err
	}
	return io.In(gpio.PullUp, gpio.NoEdge)
}

// SetPin drives pin high (true) or low (false)
func (p *Pins) SetPin(n core.GPIOPin, value bool) error {
	io, err := p.pin(n)
	if err != nil {
		return err
	}
	return io.Out(gpio.Level(value))
}

// GetPin reads the level of pin
func (p *Pins) GetPin(n core.GPIOPin) (bool, error) {
	io, err := p.pin(n)
	if err != nil {
		return false, err
	}
	return bool(io.Read()), nil
}
