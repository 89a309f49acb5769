package linuxio

import (
	"errors"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"tinyperiph/core"
)

var (
	ErrFixedMode = errors.New("linuxio: SPI mode and bit order are fixed at connect")
	ErrTooFast   = errors.New("linuxio: SPI rate above connection limit")
)

// SPIBus implements core.SPIBus on a periph SPI port. The port is
// connected once at limit; later transactions may only lower the clock.
// The select line is driven by the caller, so the port's own chip select
// is disabled.
type SPIBus struct {
	port  spi.Port
	conn  spi.Conn
	limit core.SPISettings

	current core.SPISettings
	err     error

	tx, rx [1]byte
}

// OpenSPI opens the named port ("" for the first one) through the periph
// SPI registry
func OpenSPI(name string, limit core.SPISettings) (*SPIBus, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}
	bus, err := NewSPIBus(port, limit)
	if err != nil {
		port.Close()
		return nil, err
	}
	return bus, nil
}

// NewSPIBus connects port with the mode, bit order and maximum clock in limit
func NewSPIBus(port spi.Port, limit core.SPISettings) (*SPIBus, error) {
	mode := spi.Mode(limit.Mode) | spi.NoCS
	if limit.BitOrder == core.LSBFirst {
		mode |= spi.LSBFirst
	}
	conn, err := port.Connect(hertz(limit.Frequency), mode, 8)
	if err != nil {
		return nil, err
	}
	return &SPIBus{
		port:    port,
		conn:    conn,
		limit:   limit,
		current: limit,
	}, nil
}

func hertz(hz uint32) physic.Frequency {
	return physic.Frequency(hz) * physic.Hertz
}

// Apply lowers or restores the clock. Mode and bit order cannot change.
func (b *SPIBus) Apply(settings core.SPISettings) error {
	if settings == b.current {
		return nil
	}
	if settings.Mode != b.limit.Mode || settings.BitOrder != b.limit.BitOrder {
		return ErrFixedMode
	}
	if settings.Frequency > b.limit.Frequency {
		return ErrTooFast
	}
	if err := b.port.LimitSpeed(hertz(settings.Frequency)); err != nil {
		return err
	}
	b.current = settings
	return nil
}

// BeginTransaction applies settings, recording a failure for Err
func (b *SPIBus) BeginTransaction(settings core.SPISettings) {
	if err := b.Apply(settings); err != nil {
		b.err = err
		core.DebugPrintln("linuxio: configure " + core.Utoa(settings.Frequency) + "Hz failed: " + err.Error())
	}
}

// Transfer exchanges one byte
func (b *SPIBus) Transfer(tx byte) byte {
	b.tx[0] = tx
	b.rx[0] = 0
	if err := b.conn.Tx(b.tx[:], b.rx[:]); err != nil {
		b.err = err
		core.DebugPrintln("linuxio: transfer " + core.Hex8(tx) + " failed: " + err.Error())
	}
	return b.rx[0]
}

// EndTransaction is a no-op; the select line ends the chip's frame
func (b *SPIBus) EndTransaction() {}

// Err returns and clears the last failure recorded during a transaction
func (b *SPIBus) Err() error {
	err := b.err
	b.err = nil
	return err
}

// Close releases the port when it can be closed
func (b *SPIBus) Close() error {
	if c, ok := b.port.(spi.PortCloser); ok {
		return c.Close()
	}
	return nil
}
