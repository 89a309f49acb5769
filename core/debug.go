package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// BusEvent captures one register transaction for post-mortem analysis
type BusEvent struct {
	Kind     uint8 // Event kind code
	Device   uint8 // Device tag (chip address, I2C address)
	Register uint8 // Register touched
	Value    uint16
}

// Event kind codes
const (
	EvtRegWrite   = 1 // 8-bit register write
	EvtRegRead    = 2 // 8-bit register read
	EvtRegWrite16 = 3 // 16-bit register pair write
	EvtRegRead16  = 4 // 16-bit register pair read
	EvtI2CRead    = 5 // raw I2C port read
	EvtRejected   = 6 // request rejected before touching the bus
)

const (
	BusTraceSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Bus trace ring buffer (non-blocking, for post-mortem)
	busTrace     [BusTraceSize]BusEvent
	busTraceHead uint8
	traceEnabled bool = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTraceEnabled turns bus event capture on or off
func SetTraceEnabled(enabled bool) {
	traceEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordBusEvent captures a bus event in the ring buffer
// This is always non-blocking and never allocates
func RecordBusEvent(kind, device, register uint8, value uint16) {
	if !traceEnabled {
		return
	}
	idx := busTraceHead
	busTrace[idx] = BusEvent{
		Kind:     kind,
		Device:   device,
		Register: register,
		Value:    value,
	}
	busTraceHead = (idx + 1) % BusTraceSize
}

// BusTrace returns the captured events, oldest first
func BusTrace() []BusEvent {
	events := make([]BusEvent, 0, BusTraceSize)
	start := busTraceHead
	for i := uint8(0); i < BusTraceSize; i++ {
		evt := busTrace[(start+i)%BusTraceSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// String renders the event as a single trace line
func (e BusEvent) String() string {
	var name string
	switch e.Kind {
	case EvtRegWrite:
		name = "WR"
	case EvtRegRead:
		name = "RD"
	case EvtRegWrite16:
		name = "WR16"
	case EvtRegRead16:
		name = "RD16"
	case EvtI2CRead:
		name = "I2C_RD"
	case EvtRejected:
		name = "REJECT"
	default:
		name = "UNKNOWN"
	}
	return name + " dev=" + Hex8(e.Device) + " reg=" + Hex8(e.Register) + " val=" + Hex16(e.Value)
}

// ClearBusTrace clears the trace buffer
func ClearBusTrace() {
	for i := range busTrace {
		busTrace[i] = BusEvent{}
	}
	busTraceHead = 0
}
