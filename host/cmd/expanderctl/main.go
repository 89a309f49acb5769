package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/shlex"

	"tinyperiph/host/client"
	"tinyperiph/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	timeout = flag.Duration("timeout", client.DefaultTimeout, "Reply timeout")
	verbose = flag.Bool("verbose", false, "Print informational lines from the firmware")
)

func main() {
	flag.Parse()

	if *spiPort != "" {
		if err := runLocal(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	c, err := client.ConnectWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()
	c.SetTimeout(*timeout)

	// One-shot mode: the remaining arguments are a single command
	if flag.NArg() > 0 {
		if err := run(c, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			c.Close()
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Connected to %s\n", *device)
	fmt.Println("Enter commands (type 'help' for firmware commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "watch":
			if err := watch(c, args[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			if err := run(c, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

// run sends one command and prints its reply
func run(c *client.Client, args []string) error {
	reply, err := c.Command(args[0], args[1:]...)
	if reply != nil && (*verbose || args[0] == "help" || args[0] == "trace") {
		for _, line := range reply.Info {
			fmt.Println(line)
		}
	}
	if err != nil {
		return err
	}
	if len(reply.Values) > 0 {
		fmt.Println(strings.Join(reply.Values, " "))
	}
	return nil
}

// watch polls the rotary decoder and prints encoder counts when they change
func watch(c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: watch <encoders>")
	}
	var count int
	if _, err := fmt.Sscanf(args[0], "%d", &count); err != nil || count < 1 || count > 4 {
		return errors.New("encoders must be 1-4")
	}

	fmt.Println("Watching encoders, Ctrl-C to stop")
	for {
		changed, err := c.RotaryUpdate()
		if err != nil {
			return err
		}
		if changed {
			values := make([]string, count)
			for i := range values {
				v, err := c.RotaryValue(uint8(i))
				if err != nil {
					return err
				}
				values[i] = fmt.Sprintf("%d", v)
			}
			fmt.Println(strings.Join(values, " "))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
