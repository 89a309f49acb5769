package core

import (
	"tinygo.org/x/drivers"
)

// SPIConfigurer reprograms the peripheral behind a drivers.SPI with new
// settings. On TinyGo targets this wraps machine.SPI.Configure.
type SPIConfigurer func(settings SPISettings) error

// DriversSPIBus adapts a tinygo.org/x/drivers SPI peripheral to SPIBus.
// The peripheral is only reconfigured when a transaction asks for settings
// that differ from the ones already applied.
type DriversSPIBus struct {
	bus       drivers.SPI
	configure SPIConfigurer

	current    SPISettings
	configured bool
	inTx       bool

	err error
}

// NewDriversSPIBus wraps bus. configure may be nil for peripherals whose
// settings are fixed at construction.
func NewDriversSPIBus(bus drivers.SPI, configure SPIConfigurer) *DriversSPIBus {
	return &DriversSPIBus{
		bus:       bus,
		configure: configure,
	}
}

// BeginTransaction applies settings if they changed since the last
// transaction. A configuration failure is recorded for Err and the
// peripheral keeps its previous settings.
func (b *DriversSPIBus) BeginTransaction(settings SPISettings) {
	b.inTx = true
	if err := b.Apply(settings); err != nil {
		b.err = err
		DebugPrintln("spi: configure " + utoa(settings.Frequency) + "Hz failed: " + err.Error())
	}
}

// Apply programs the peripheral with settings immediately. On failure the
// previously applied settings stay in effect.
func (b *DriversSPIBus) Apply(settings SPISettings) error {
	if b.configured && settings == b.current {
		return nil
	}
	if b.configure != nil {
		if err := b.configure(settings); err != nil {
			return err
		}
	}
	b.current = settings
	b.configured = true
	return nil
}

// Transfer performs a single full-duplex byte exchange
func (b *DriversSPIBus) Transfer(tx byte) byte {
	rx, err := b.bus.Transfer(tx)
	if err != nil {
		b.err = err
		DebugPrintln("spi: transfer " + Hex8(tx) + " failed: " + err.Error())
	}
	return rx
}

// EndTransaction marks the bus as released
func (b *DriversSPIBus) EndTransaction() {
	b.inTx = false
}

// applied returns the settings currently programmed into the peripheral
func (b *DriversSPIBus) applied() (SPISettings, bool) {
	return b.current, b.configured
}

// Err returns and clears the last peripheral error recorded during a
// transaction.
func (b *DriversSPIBus) Err() error {
	err := b.err
	b.err = nil
	return err
}
