package core

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

const (
	SPIMode0 SPIMode = iota
	SPIMode1
	SPIMode2
	SPIMode3
)

// BitOrder selects which end of a byte is shifted out first
type BitOrder uint8

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// SPISettings is the per-transaction bus configuration a device asks for
type SPISettings struct {
	Frequency uint32   // Clock rate in Hz
	BitOrder  BitOrder // Bit order on the wire
	Mode      SPIMode  // SPI mode (0-3)
}

// SPIBus is the hardware SPI peripheral as seen by device drivers.
// Several devices may share one bus as long as their transactions are not
// interleaved; the bus does no arbitration of its own.
type SPIBus interface {
	// BeginTransaction applies settings before a device's transfers.
	// Settings stay in effect until the next BeginTransaction.
	BeginTransaction(settings SPISettings)

	// Transfer sends tx and returns the byte clocked in at the same time.
	Transfer(tx byte) byte

	// EndTransaction releases the bus for other devices.
	EndTransaction()
}
