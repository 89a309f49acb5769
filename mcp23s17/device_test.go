package mcp23s17

import (
	"errors"
	"testing"

	"tinyperiph/core"
)

func TestBeginWritesDefaults(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		want := []frame{
			{op: 0x40, reg: byte(IOCON), data: IOCONSEQOP},
			{op: 0x40, reg: byte(GPPUA), data: 0xFF},
			{op: 0x40, reg: byte(GPPUB), data: 0xFF},
		}
		for i, w := range want {
			got := chip.frames[i]
			if got.op != w.op || got.reg != w.reg || got.data != w.data {
				t.Errorf("Frame %d = %+v, want %+v", i, got, w)
			}
		}

		if chip.configured[testSel] != "output" {
			t.Errorf("Select pin configured as %q", chip.configured[testSel])
		}
		if !chip.levels[testSel] {
			t.Error("Select line should idle high")
		}
		if d.LastError() != OK {
			t.Error("Expected no error after Begin")
		}
	})
}

func TestBeginSoftwareConfiguresLines(t *testing.T) {
	chip := newFakeChip(0)
	d := NewSoftware(chip, testSel, testMISO, testMOSI, testClk, 0)
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if chip.configured[testMISO] != "input" {
		t.Errorf("Data in configured as %q", chip.configured[testMISO])
	}
	if chip.configured[testMOSI] != "output" || chip.configured[testClk] != "output" {
		t.Error("Data out and clock should be outputs")
	}
	if chip.levels[testClk] {
		t.Error("Clock should idle low")
	}
}

func TestBeginHardwareWithoutBus(t *testing.T) {
	chip := newFakeChip(0)
	d := NewHardware(chip, testSel, 0, nil)
	if err := d.Begin(); !errors.Is(err, ErrNoBus) {
		t.Errorf("Expected ErrNoBus, got %v", err)
	}
}

func TestIsConnectedAlwaysTrue(t *testing.T) {
	chip := newFakeChip(0)
	d := NewHardware(chip, testSel, 0, chip)
	if !d.IsConnected() {
		t.Error("IsConnected should be unconditionally true")
	}
	if len(chip.frames) != 0 {
		t.Error("IsConnected must not touch the bus")
	}
}

func TestOpcodeCarriesAddress(t *testing.T) {
	chip := newFakeChip(5)
	d := NewHardware(chip, testSel, 5, chip)
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := d.Read8(PortA); err != nil {
		t.Fatalf("Read8 failed: %v", err)
	}

	if op := chip.frames[0].op; op != 0x4A {
		t.Errorf("Write opcode = 0x%02X, want 0x4A", op)
	}
	if op := chip.frames[len(chip.frames)-1].op; op != 0x4B {
		t.Errorf("Read opcode = 0x%02X, want 0x4B", op)
	}
	if d.Address() != 5 {
		t.Errorf("Address() = %d, want 5", d.Address())
	}
}

func TestAddressMaskedToThreeBits(t *testing.T) {
	chip := newFakeChip(0)
	d := NewHardware(chip, testSel, 0x0D, chip)
	if d.Address() != 5 {
		t.Errorf("Address() = %d, want 5", d.Address())
	}
}

func TestLastErrorReadAndClear(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		if e := d.LastError(); e != OK {
			t.Fatalf("Fresh device LastError = %v", e)
		}

		if err := d.DigitalWrite(16, true); err != ErrPin {
			t.Fatalf("Expected ErrPin, got %v", err)
		}
		if e := d.LastError(); e != ErrPin {
			t.Errorf("LastError = %v, want ErrPin", e)
		}
		if e := d.LastError(); e != OK {
			t.Errorf("Second LastError = %v, want OK", e)
		}

		// A newer error replaces an older one
		d.Write8(2, 0)
		d.PinMode(0, PinMode(9))
		if e := d.LastError(); e != ErrValue {
			t.Errorf("LastError = %v, want ErrValue", e)
		}

		// A successful call clears a pending error
		d.DigitalRead(99)
		if _, err := d.DigitalRead(0); err != nil {
			t.Fatalf("DigitalRead failed: %v", err)
		}
		if e := d.LastError(); e != OK {
			t.Errorf("LastError after success = %v, want OK", e)
		}
	})
}

func TestErrorStrings(t *testing.T) {
	for _, e := range []Error{OK, ErrPin, ErrValue, ErrPort, ErrRegister, Error(0x42)} {
		if e.Error() == "" {
			t.Errorf("Error(0x%02X) has empty message", uint8(e))
		}
	}
	var err error = ErrPort
	if !errors.Is(err, ErrPort) {
		t.Error("errors.Is should match driver codes")
	}
}

func TestRegisterValidation(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		before := chip.transfers

		if err := d.writeReg(MaxRegister+1, 0x01); err != ErrRegister {
			t.Errorf("writeReg: expected ErrRegister, got %v", err)
		}
		if _, err := d.readReg(0xFF); err != ErrRegister {
			t.Errorf("readReg: expected ErrRegister, got %v", err)
		}
		// The B half of a word at OLATB would fall off the register file
		if err := d.writeReg16(OLATB, 0x0101); err != ErrRegister {
			t.Errorf("writeReg16: expected ErrRegister, got %v", err)
		}
		if _, err := d.readReg16(OLATB); err != ErrRegister {
			t.Errorf("readReg16: expected ErrRegister, got %v", err)
		}

		if chip.transfers != before {
			t.Errorf("Rejected registers caused %d transfers", chip.transfers-before)
		}
		if chip.selected {
			t.Error("Select line left asserted")
		}
		if d.LastError() != ErrRegister {
			t.Error("Expected ErrRegister in the error slot")
		}
	})
}

func TestRegisterValid(t *testing.T) {
	if !IODIRA.Valid() || !OLATB.Valid() {
		t.Error("Edge registers should be valid")
	}
	if Register(0x16).Valid() {
		t.Error("0x16 should be invalid")
	}
}

func TestHardwareAddressEnable(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		if err := d.EnableHardwareAddress(); err != nil {
			t.Fatalf("EnableHardwareAddress failed: %v", err)
		}
		if chip.regs[IOCON] != IOCONSEQOP|IOCONHAEN {
			t.Errorf("IOCON = 0x%02X, want 0x%02X", chip.regs[IOCON], IOCONSEQOP|IOCONHAEN)
		}

		if err := d.DisableHardwareAddress(); err != nil {
			t.Fatalf("DisableHardwareAddress failed: %v", err)
		}
		if chip.regs[IOCON] != IOCONSEQOP {
			t.Errorf("IOCON = 0x%02X, want 0x%02X", chip.regs[IOCON], IOCONSEQOP)
		}
	})
}

func TestHardwareAddressingSelectsChip(t *testing.T) {
	chip := newFakeChip(3)
	other := NewHardware(chip, testSel, 1, chip)
	own := NewHardware(chip, testSel, 3, chip)
	if err := own.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := own.EnableHardwareAddress(); err != nil {
		t.Fatalf("EnableHardwareAddress failed: %v", err)
	}

	// Once HAEN is set the chip ignores frames for other addresses
	if err := other.Write8(PortA, 0x55); err != nil {
		t.Fatalf("Write8 failed: %v", err)
	}
	if chip.regs[OLATA] != 0x00 {
		t.Errorf("Chip accepted a write for another address: OLATA=0x%02X", chip.regs[OLATA])
	}

	if err := own.Write8(PortA, 0x55); err != nil {
		t.Fatalf("Write8 failed: %v", err)
	}
	if chip.regs[OLATA] != 0x55 {
		t.Errorf("OLATA = 0x%02X, want 0x55", chip.regs[OLATA])
	}
}

func TestSPISpeedHardware(t *testing.T) {
	chip := newFakeChip(0)
	d := NewHardware(chip, testSel, 0, chip)
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if !d.UsesHardwareSPI() {
		t.Error("Expected hardware transport")
	}
	if d.SPISpeed() != DefaultSPISpeed {
		t.Errorf("SPISpeed = %d, want %d", d.SPISpeed(), DefaultSPISpeed)
	}

	want := core.SPISettings{Frequency: DefaultSPISpeed, BitOrder: core.MSBFirst, Mode: core.SPIMode0}
	for i, s := range chip.settings {
		if s != want {
			t.Fatalf("Transaction %d settings = %+v, want %+v", i, s, want)
		}
	}

	if err := d.SetSPISpeed(1000000); err != nil {
		t.Fatalf("SetSPISpeed failed: %v", err)
	}
	if d.SPISpeed() != 1000000 {
		t.Errorf("SPISpeed = %d, want 1000000", d.SPISpeed())
	}
	if _, err := d.Read8(PortB); err != nil {
		t.Fatalf("Read8 failed: %v", err)
	}
	last := chip.settings[len(chip.settings)-1]
	if last.Frequency != 1000000 || last.Mode != core.SPIMode0 || last.BitOrder != core.MSBFirst {
		t.Errorf("Next transaction used %+v", last)
	}
}

func TestSPISpeedSoftware(t *testing.T) {
	chip := newFakeChip(0)
	d := NewSoftware(chip, testSel, testMISO, testMOSI, testClk, 0)

	if d.UsesHardwareSPI() {
		t.Error("Expected software transport")
	}
	if d.SPISpeed() != 0 {
		t.Errorf("SPISpeed = %d, want 0", d.SPISpeed())
	}
	if err := d.SetSPISpeed(1000000); !errors.Is(err, ErrNotHardware) {
		t.Errorf("Expected ErrNotHardware, got %v", err)
	}
}

// chipSPI exposes fakeChip as a drivers.SPI so it can sit behind
// core.DriversSPIBus
type chipSPI struct {
	chip *fakeChip
	fail error
}

func (s *chipSPI) Tx(w, r []byte) error {
	for i, b := range w {
		rx, err := s.Transfer(b)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = rx
		}
	}
	return nil
}

func (s *chipSPI) Transfer(b byte) (byte, error) {
	return s.chip.Transfer(b), s.fail
}

func TestSPISpeedRejectedByBus(t *testing.T) {
	chip := newFakeChip(0)
	errDivider := errors.New("clock divider out of range")
	var applied []uint32
	bus := core.NewDriversSPIBus(&chipSPI{chip: chip}, func(s core.SPISettings) error {
		if s.Frequency < 1000 {
			return errDivider
		}
		applied = append(applied, s.Frequency)
		return nil
	})

	d := NewHardware(chip, testSel, 0, bus)
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if len(applied) != 1 || applied[0] != DefaultSPISpeed {
		t.Fatalf("Begin should program the bus once at %d, got %v", DefaultSPISpeed, applied)
	}

	if err := d.SetSPISpeed(200); !errors.Is(err, errDivider) {
		t.Errorf("Expected divider error, got %v", err)
	}
	if d.SPISpeed() != DefaultSPISpeed {
		t.Errorf("SPISpeed = %d after rejected change, want %d", d.SPISpeed(), DefaultSPISpeed)
	}

	if err := d.SetPullup8(PortB, 0x3C); err != nil {
		t.Fatalf("SetPullup8 failed: %v", err)
	}
	if v, err := d.GetPullup8(PortB); err != nil || v != 0x3C {
		t.Errorf("GetPullup8 = 0x%02X, %v", v, err)
	}
	if len(applied) != 1 {
		t.Errorf("Bus reprogrammed after rejected change: %v", applied)
	}
	if err := d.BusError(); err != nil {
		t.Errorf("Unexpected bus error: %v", err)
	}

	if err := d.SetSPISpeed(1000000); err != nil {
		t.Fatalf("SetSPISpeed failed: %v", err)
	}
	if len(applied) != 2 || applied[1] != 1000000 {
		t.Errorf("Expected bus programmed at 1000000, got %v", applied)
	}
}

func TestBeginReportsBusConfigureFailure(t *testing.T) {
	chip := newFakeChip(0)
	errNoClock := errors.New("no clock")
	bus := core.NewDriversSPIBus(&chipSPI{chip: chip}, func(core.SPISettings) error {
		return errNoClock
	})

	d := NewHardware(chip, testSel, 0, bus)
	if err := d.Begin(); !errors.Is(err, errNoClock) {
		t.Errorf("Expected configure error from Begin, got %v", err)
	}
	if len(chip.frames) != 0 {
		t.Errorf("Begin should stop before any frame, saw %d", len(chip.frames))
	}
}

func TestBusErrorReadAndClear(t *testing.T) {
	chip := newFakeChip(0)
	spi := &chipSPI{chip: chip}
	d := NewHardware(chip, testSel, 0, core.NewDriversSPIBus(spi, nil))
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	boom := errors.New("fifo stall")
	spi.fail = boom
	d.Read8(PortA)

	if err := d.BusError(); !errors.Is(err, boom) {
		t.Errorf("Expected fifo stall, got %v", err)
	}
	if err := d.BusError(); err != nil {
		t.Errorf("Expected bus error cleared, got %v", err)
	}

	soft := NewSoftware(chip, testSel, testMISO, testMOSI, testClk, 0)
	if err := soft.BusError(); err != nil {
		t.Errorf("Software transport has no bus errors, got %v", err)
	}
}

func TestEveryAccessIsFramed(t *testing.T) {
	chip := newFakeChip(0)
	d := NewHardware(chip, testSel, 0, chip)
	if err := d.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	d.PinMode(3, Output)
	d.DigitalWrite(3, true)
	d.Write16(0x1234)
	d.Read16()
	d.SetPullup8(PortB, 0x0F)

	if chip.selected {
		t.Error("Select line left asserted")
	}
	if chip.inTx {
		t.Error("Bus transaction left open")
	}
	if chip.outsideTx != 0 || chip.unselected != 0 {
		t.Errorf("Bytes outside a framed transaction: outsideTx=%d unselected=%d",
			chip.outsideTx, chip.unselected)
	}
	if chip.txNotInSel != 0 {
		t.Errorf("%d transactions began before select", chip.txNotInSel)
	}
	// One bus transaction per select cycle
	if len(chip.settings) != len(chip.frames) {
		t.Errorf("Transactions = %d, frames = %d", len(chip.settings), len(chip.frames))
	}
}

func TestTraceRecordsAccesses(t *testing.T) {
	core.ClearBusTrace()
	defer core.ClearBusTrace()

	chip := newFakeChip(0)
	d := NewHardware(chip, testSel, 0, chip)
	if err := d.Write16(0xBEEF); err != nil {
		t.Fatalf("Write16 failed: %v", err)
	}
	d.DigitalRead(40)

	events := core.BusTrace()
	if len(events) != 2 {
		t.Fatalf("Expected 2 trace events, got %d", len(events))
	}
	if events[0].Kind != core.EvtRegWrite16 || events[0].Value != 0xBEEF {
		t.Errorf("Unexpected first event %+v", events[0])
	}
	if events[1].Kind != core.EvtRejected || events[1].Value != uint16(ErrPin) {
		t.Errorf("Unexpected second event %+v", events[1])
	}
}
