package mcp23s17

import (
	"testing"
)

func TestWriteReadRoundTripAllPins(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		for pin := uint8(0); pin < NumPins; pin++ {
			if err := d.PinMode(pin, Output); err != nil {
				t.Fatalf("PinMode(%d) failed: %v", pin, err)
			}
			for _, v := range []bool{true, false} {
				if err := d.DigitalWrite(pin, v); err != nil {
					t.Fatalf("DigitalWrite(%d, %v) failed: %v", pin, v, err)
				}
				got, err := d.DigitalRead(pin)
				if err != nil {
					t.Fatalf("DigitalRead(%d) failed: %v", pin, err)
				}
				if got != v {
					t.Errorf("Pin %d: wrote %v, read %v", pin, v, got)
				}
			}
		}
	})
}

func TestOutOfRangePinNoBusTraffic(t *testing.T) {
	ops := map[string]func(d *Device, pin uint8) error{
		"PinMode":      func(d *Device, pin uint8) error { return d.PinMode(pin, Output) },
		"DigitalWrite": func(d *Device, pin uint8) error { return d.DigitalWrite(pin, true) },
		"DigitalRead":  func(d *Device, pin uint8) error { _, err := d.DigitalRead(pin); return err },
		"SetPolarity": func(d *Device, pin uint8) error { return d.SetPolarity(pin, true) },
		"GetPolarity": func(d *Device, pin uint8) error { _, err := d.GetPolarity(pin); return err },
		"SetPullup":   func(d *Device, pin uint8) error { return d.SetPullup(pin, true) },
		"GetPullup":   func(d *Device, pin uint8) error { _, err := d.GetPullup(pin); return err },
	}

	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		for name, op := range ops {
			for _, pin := range []uint8{16, 17, 100, 255} {
				transfers := chip.transfers
				frames := len(chip.frames)
				selLevel := chip.levels[testSel]

				if err := op(d, pin); err != ErrPin {
					t.Errorf("%s(%d): expected ErrPin, got %v", name, pin, err)
				}
				if e := d.LastError(); e != ErrPin {
					t.Errorf("%s(%d): LastError = %v", name, pin, e)
				}
				if chip.transfers != transfers || len(chip.frames) != frames {
					t.Errorf("%s(%d) touched the bus", name, pin)
				}
				if chip.levels[testSel] != selLevel || chip.selected {
					t.Errorf("%s(%d) moved the select line", name, pin)
				}
			}
		}
	})
}

func TestDigitalWriteSkipsUnchanged(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		if err := d.PinMode(5, Output); err != nil {
			t.Fatalf("PinMode failed: %v", err)
		}
		if err := d.DigitalWrite(5, true); err != nil {
			t.Fatalf("DigitalWrite failed: %v", err)
		}

		// Same level again: one read, no write
		reads, writes := chip.readCount(), chip.writeCount()
		if err := d.DigitalWrite(5, true); err != nil {
			t.Fatalf("DigitalWrite failed: %v", err)
		}
		if got := chip.readCount() - reads; got != 1 {
			t.Errorf("Unchanged write: %d reads, want 1", got)
		}
		if got := chip.writeCount() - writes; got != 0 {
			t.Errorf("Unchanged write: %d writes, want 0", got)
		}

		// Opposite level: one read, one write
		reads, writes = chip.readCount(), chip.writeCount()
		if err := d.DigitalWrite(5, false); err != nil {
			t.Fatalf("DigitalWrite failed: %v", err)
		}
		if got := chip.readCount() - reads; got != 1 {
			t.Errorf("Changed write: %d reads, want 1", got)
		}
		if got := chip.writeCount() - writes; got != 1 {
			t.Errorf("Changed write: %d writes, want 1", got)
		}

		last := chip.frames[len(chip.frames)-1]
		if last.reg != byte(GPIOA) || last.data&(1<<5) != 0 {
			t.Errorf("Unexpected write frame %+v", last)
		}
	})
}

func TestPinModeDirectionBits(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		if err := d.PinMode(3, Output); err != nil {
			t.Fatalf("PinMode failed: %v", err)
		}
		if chip.regs[IODIRA] != 0xF7 {
			t.Errorf("IODIRA = 0x%02X, want 0xF7", chip.regs[IODIRA])
		}

		if err := d.PinMode(9, Output); err != nil {
			t.Fatalf("PinMode failed: %v", err)
		}
		if chip.regs[IODIRB] != 0xFD {
			t.Errorf("IODIRB = 0x%02X, want 0xFD", chip.regs[IODIRB])
		}

		// INPUT_PULLUP is treated as INPUT
		if err := d.PinMode(9, InputPullup); err != nil {
			t.Fatalf("PinMode failed: %v", err)
		}
		if err := d.PinMode(3, Input); err != nil {
			t.Fatalf("PinMode failed: %v", err)
		}
		if chip.regs[IODIRA] != 0xFF || chip.regs[IODIRB] != 0xFF {
			t.Errorf("IODIR = 0x%02X/0x%02X, want 0xFF/0xFF", chip.regs[IODIRA], chip.regs[IODIRB])
		}
	})
}

func TestPinModeInvalidMode(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		transfers := chip.transfers
		if err := d.PinMode(0, PinMode(3)); err != ErrValue {
			t.Errorf("Expected ErrValue, got %v", err)
		}
		if chip.transfers != transfers {
			t.Error("Invalid mode touched the bus")
		}
		if d.LastError() != ErrValue {
			t.Error("Expected ErrValue in the error slot")
		}
	})
}

func TestPolarityRoundTrip(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		for _, pin := range []uint8{0, 7, 8, 15} {
			if err := d.SetPolarity(pin, true); err != nil {
				t.Fatalf("SetPolarity(%d) failed: %v", pin, err)
			}
			got, err := d.GetPolarity(pin)
			if err != nil || !got {
				t.Errorf("GetPolarity(%d) = %v, %v; want true", pin, got, err)
			}
		}
		if chip.regs[IPOLA] != 0x81 || chip.regs[IPOLB] != 0x81 {
			t.Errorf("IPOL = 0x%02X/0x%02X, want 0x81/0x81", chip.regs[IPOLA], chip.regs[IPOLB])
		}

		if err := d.SetPolarity(7, false); err != nil {
			t.Fatalf("SetPolarity failed: %v", err)
		}
		if got, _ := d.GetPolarity(7); got {
			t.Error("GetPolarity(7) should be false after clearing")
		}
	})
}

func TestPolarityInvertsInput(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		chip.external[PortB] = 0x04 // pin 10 driven high

		if v, _ := d.DigitalRead(10); !v {
			t.Fatal("Pin 10 should read high")
		}
		if err := d.SetPolarity(10, true); err != nil {
			t.Fatalf("SetPolarity failed: %v", err)
		}
		if v, _ := d.DigitalRead(10); v {
			t.Error("Pin 10 should read low with inverted polarity")
		}
	})
}

func TestPullupRoundTrip(t *testing.T) {
	forEachTransport(t, func(t *testing.T, d *Device, chip *fakeChip) {
		// Begin enables every pull-up
		for pin := uint8(0); pin < NumPins; pin++ {
			if v, err := d.GetPullup(pin); err != nil || !v {
				t.Fatalf("GetPullup(%d) = %v, %v after Begin", pin, v, err)
			}
		}

		if err := d.SetPullup(12, false); err != nil {
			t.Fatalf("SetPullup failed: %v", err)
		}
		if v, _ := d.GetPullup(12); v {
			t.Error("GetPullup(12) should be false")
		}
		if chip.regs[GPPUB] != 0xEF {
			t.Errorf("GPPUB = 0x%02X, want 0xEF", chip.regs[GPPUB])
		}

		if err := d.SetPullup(12, true); err != nil {
			t.Fatalf("SetPullup failed: %v", err)
		}
		if v, _ := d.GetPullup(12); !v {
			t.Error("GetPullup(12) should be true")
		}
	})
}
