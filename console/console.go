// Package console is the line-oriented text protocol the firmware speaks on
// its USB serial port.
//
// Each request is one line: a command name followed by whitespace separated
// arguments (shell quoting allowed). Each request gets exactly one reply
// line, either "ok" with optional values or "err" with a message. Lines
// starting with "#" are informational (help text, trace dumps, debug
// output) and may appear before a reply.
package console

import (
	"errors"
	"io"

	"github.com/google/shlex"

	"tinyperiph/core"
	"tinyperiph/mcp23s17"
	"tinyperiph/rotary"
)

// MaxLineLength is the longest request line accepted
const MaxLineLength = 128

var (
	ErrUsage       = errors.New("bad arguments")
	ErrLineTooLong = errors.New("line too long")
	ErrNoRotary    = errors.New("no rotary decoder")
)

// Console dispatches request lines to the expander and rotary decoder
type Console struct {
	exp      *mcp23s17.Device
	rot      *rotary.Device
	registry *core.CommandRegistry
	out      io.Writer

	echo     bool
	line     []byte
	overflow bool
}

// New creates a console writing replies to out. rot may be nil when no
// rotary decoder is fitted; its commands then reply with an error.
func New(exp *mcp23s17.Device, rot *rotary.Device, out io.Writer) *Console {
	c := &Console{
		exp:      exp,
		rot:      rot,
		registry: core.NewCommandRegistry(),
		out:      out,
		line:     make([]byte, 0, MaxLineLength),
	}
	c.registry.Register("help", "", c.cmdHelp)
	c.registerExpanderCommands()
	c.registerRotaryCommands()
	c.registerTraceCommands()
	return c
}

// SetEcho turns echoing of received bytes on or off
func (c *Console) SetEcho(on bool) {
	c.echo = on
}

// Feed consumes one received byte. A complete line is executed when its
// terminator (CR or LF) arrives.
func (c *Console) Feed(b byte) {
	if c.echo {
		c.out.Write([]byte{b})
	}

	switch b {
	case '\r', '\n':
		if c.overflow {
			c.overflow = false
			c.line = c.line[:0]
			c.replyErr(ErrLineTooLong)
			return
		}
		if len(c.line) == 0 {
			return
		}
		line := string(c.line)
		c.line = c.line[:0]
		c.HandleLine(line)
	default:
		if len(c.line) >= MaxLineLength {
			c.overflow = true
			return
		}
		c.line = append(c.line, b)
	}
}

// HandleLine executes one request line and writes its reply. Blank lines
// and "#" comments produce no reply.
func (c *Console) HandleLine(line string) {
	args, err := shlex.Split(line)
	if err != nil {
		c.replyErr(err)
		return
	}
	if len(args) == 0 {
		return
	}
	c.Exec(args)
}

// Exec runs one already split request and writes its reply
func (c *Console) Exec(args []string) {
	if len(args) == 0 {
		c.replyErr(ErrUsage)
		return
	}
	value, err := c.registry.Dispatch(args[0], args[1:])
	if err != nil {
		c.replyErr(err)
		return
	}
	c.replyOK(value)
}

// Info writes an informational line. It can be installed as the
// core.DebugWriter so debug output reaches the host.
func (c *Console) Info(msg string) {
	c.writeLine("# " + msg)
}

func (c *Console) replyOK(value string) {
	if value == "" {
		c.writeLine("ok")
		return
	}
	c.writeLine("ok " + value)
}

func (c *Console) replyErr(err error) {
	c.writeLine("err " + err.Error())
}

func (c *Console) writeLine(s string) {
	c.out.Write([]byte(s + "\n"))
}

func (c *Console) cmdHelp(args []string) (string, error) {
	help := c.registry.GetHelp()
	start := 0
	for i := 0; i < len(help); i++ {
		if help[i] == '\n' {
			c.Info(help[start:i])
			start = i + 1
		}
	}
	return "", nil
}

func (c *Console) registerTraceCommands() {
	c.registry.Register("trace", "[0|1]", func(args []string) (string, error) {
		switch len(args) {
		case 0:
			for _, evt := range core.BusTrace() {
				c.Info(evt.String())
			}
			return "", nil
		case 1:
			on, err := parseBool(args[0])
			if err != nil {
				return "", err
			}
			core.SetTraceEnabled(on)
			return "", nil
		}
		return "", ErrUsage
	})
	c.registry.Register("trace_clear", "", func(args []string) (string, error) {
		core.ClearBusTrace()
		return "", nil
	})
	c.registry.Register("debug", "<0|1>", func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}
		on, err := parseBool(args[0])
		if err != nil {
			return "", err
		}
		core.SetDebugEnabled(on)
		return "", nil
	})
}

// Argument helpers

func parseBool(s string) (bool, error) {
	switch s {
	case "0", "off", "false":
		return false, nil
	case "1", "on", "true":
		return true, nil
	}
	return false, ErrUsage
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parsePin(s string) (uint8, error) {
	v, err := core.ParseUint(s, 8)
	return uint8(v), err
}

func parsePort(s string) (mcp23s17.Port, error) {
	switch s {
	case "a", "A":
		return mcp23s17.PortA, nil
	case "b", "B":
		return mcp23s17.PortB, nil
	}
	v, err := core.ParseUint(s, 8)
	return mcp23s17.Port(v), err
}

func parseMode(s string) (mcp23s17.PinMode, error) {
	switch s {
	case "in", "input":
		return mcp23s17.Input, nil
	case "out", "output":
		return mcp23s17.Output, nil
	case "pullup", "input_pullup":
		return mcp23s17.InputPullup, nil
	}
	v, err := core.ParseUint(s, 8)
	return mcp23s17.PinMode(v), err
}
