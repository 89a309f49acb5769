package config

// Transport names accepted in ExpanderConfig.Transport
const (
	TransportHardware = "hardware" // SPI peripheral
	TransportPIO      = "pio"      // PIO state machine SPI
	TransportSoftware = "software" // bit-banged GPIO
)

// ExpanderConfig describes how the MCP23S17 is wired
type ExpanderConfig struct {
	Transport string // hardware, pio or software
	Address   uint8  // Hardware address A2..A0 (0-7)
	SelectPin string // Active-low chip select
	ClockPin  string // SCK (pio, software)
	DataOut   string // MOSI, to chip SI (pio, software)
	DataIn    string // MISO, from chip SO (pio, software)
	SPIBus    int    // SPI peripheral index (hardware)
	SPISpeed  uint32 // Bus clock in Hz (hardware, pio)

	HardwareAddressing bool // Set IOCON.HAEN after Begin
}

// RotaryConfig describes the optional I2C rotary encoder expander
type RotaryConfig struct {
	Enabled   bool
	Address   uint16 // 7-bit I2C address
	Count     uint8  // Number of encoders (1-4)
	I2CBus    int    // I2C peripheral index
	SDAPin    string
	SCLPin    string
	Frequency uint32 // I2C clock in Hz
}

// BoardConfig is the complete firmware configuration
type BoardConfig struct {
	Expander ExpanderConfig
	Rotary   RotaryConfig
	Debug    bool // Route debug output to the console
	Echo     bool // Echo console input
}
