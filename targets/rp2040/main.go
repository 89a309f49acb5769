//go:build rp2040 || rp2350

package main

import (
	_ "embed"
	"machine"
	"time"

	"tinyperiph/config"
	"tinyperiph/console"
	"tinyperiph/core"
	"tinyperiph/rotary"
)

//go:embed board.json
var boardJSON []byte

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	// Initialize USB CDC immediately
	if err := InitUSB(); err != nil {
		return
	}

	cfg, cfgErr := config.LoadConfig(boardJSON)
	if cfgErr != nil {
		cfg = config.DefaultBoardConfig()
	}

	gpioDriver := NewRPGPIODriver()
	core.SetGPIODriver(gpioDriver)

	exp, err := newExpander(&cfg.Expander, core.MustGPIO())
	if err != nil {
		// Nothing to drive; report on every line so the host can see why
		haltWithError("expander: " + err.Error())
	}

	var rot *rotary.Device
	var rotErr error
	if cfg.Rotary.Enabled {
		rot, rotErr = newRotary(&cfg.Rotary)
	}

	con := console.New(exp, rot, usbWriter{})
	con.SetEcho(cfg.Echo)
	core.SetDebugWriter(con.Info)
	core.SetDebugEnabled(cfg.Debug)

	if cfgErr != nil {
		con.Info("board.json rejected, using defaults: " + cfgErr.Error())
	}
	if rotErr != nil {
		con.Info("rotary decoder disabled: " + rotErr.Error())
		rot = nil
	}

	if err := exp.Begin(); err != nil {
		con.Info("expander begin failed: " + err.Error())
	}
	if cfg.Expander.HardwareAddressing {
		if err := exp.EnableHardwareAddress(); err != nil {
			con.Info("hardware addressing failed: " + err.Error())
		}
	}

	for {
		for USBAvailable() > 0 {
			b, err := USBRead()
			if err != nil {
				break
			}
			con.Feed(b)
		}
		time.Sleep(time.Millisecond)
	}
}

// haltWithError answers every request line with msg
func haltWithError(msg string) {
	for {
		for USBAvailable() > 0 {
			b, err := USBRead()
			if err != nil {
				break
			}
			if b == '\n' {
				usbWriter{}.Write([]byte("err " + msg + "\n"))
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
}
