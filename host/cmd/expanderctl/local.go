package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"tinyperiph/config"
	"tinyperiph/console"
	"tinyperiph/core"
	"tinyperiph/host/linuxio"
	"tinyperiph/mcp23s17"
)

var (
	spiPort   = flag.String("spi", "", "Drive the expander on this host SPI port (e.g. SPI0.0) instead of over serial")
	selectPin = flag.Int("select", 8, "Host GPIO number of the select line (with -spi)")
	address   = flag.Uint("addr", 0, "Expander hardware address 0-7 (with -spi)")
)

// runLocal drives the expander from this machine through periph and
// speaks the console protocol on stdin and stdout
func runLocal() error {
	if *address > 7 {
		return fmt.Errorf("address %d out of range 0-7", *address)
	}
	if err := linuxio.Init(); err != nil {
		return err
	}

	bus, err := linuxio.OpenSPI(*spiPort, core.SPISettings{
		Frequency: config.MaxSPISpeed,
		BitOrder:  core.MSBFirst,
		Mode:      core.SPIMode0,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *spiPort, err)
	}
	defer bus.Close()

	exp := mcp23s17.NewHardware(linuxio.NewPins(nil), core.GPIOPin(*selectPin), uint8(*address), bus)
	con := console.New(exp, nil, os.Stdout)
	if *verbose {
		core.SetDebugWriter(con.Info)
		core.SetDebugEnabled(true)
	}
	if err := exp.Begin(); err != nil {
		return fmt.Errorf("expander begin failed: %w", err)
	}

	// One-shot mode: the remaining arguments are a single command
	if flag.NArg() > 0 {
		con.Exec(flag.Args())
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "quit", "exit", "q":
			return nil
		}
		con.HandleLine(line)
	}
	return scanner.Err()
}
