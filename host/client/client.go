package client

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tinyperiph/host/serial"
)

// DefaultTimeout bounds how long a request waits for its reply line
const DefaultTimeout = 2 * time.Second

var (
	ErrTimeout      = errors.New("timed out waiting for reply")
	ErrNotConnected = errors.New("not connected")
	ErrBadReply     = errors.New("malformed reply")
)

// RemoteError is an "err" reply from the firmware
type RemoteError struct {
	Command string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Command + ": " + e.Message
}

// Reply is the firmware's answer to one request
type Reply struct {
	Values []string // Fields after "ok"
	Info   []string // "#" lines received before the reply, without the prefix
}

// Client talks to the firmware console over a serial port
type Client struct {
	port    serial.Port
	timeout time.Duration

	buf     []byte // Received bytes not yet consumed
	scratch [64]byte

	connected bool
}

// New wraps an already open port
func New(port serial.Port) *Client {
	return &Client{
		port:      port,
		timeout:   DefaultTimeout,
		connected: port != nil,
	}
}

// Connect opens device with the default serial configuration
func Connect(device string) (*Client, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the port described by cfg
func ConnectWithConfig(cfg *serial.Config) (*Client, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return New(port), nil
}

// SetTimeout changes the reply timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Close closes the underlying port
func (c *Client) Close() error {
	if !c.connected {
		return nil
	}
	c.connected = false
	return c.port.Close()
}

// Do sends one raw request line and waits for its reply. An "err" reply is
// returned as a *RemoteError together with any info lines received.
func (c *Client) Do(line string) (*Reply, error) {
	if !c.connected {
		return nil, ErrNotConnected
	}
	line = strings.TrimSpace(line)
	if _, err := io.WriteString(c.port, line+"\n"); err != nil {
		return nil, fmt.Errorf("failed to send %q: %w", line, err)
	}

	reply := &Reply{}
	deadline := time.Now().Add(c.timeout)
	for {
		resp, err := c.readLine(deadline)
		if err != nil {
			return reply, err
		}

		switch {
		case resp == "":
			continue
		case strings.HasPrefix(resp, "#"):
			reply.Info = append(reply.Info, strings.TrimSpace(resp[1:]))
		case resp == "ok":
			return reply, nil
		case strings.HasPrefix(resp, "ok "):
			reply.Values = strings.Fields(resp[3:])
			return reply, nil
		case strings.HasPrefix(resp, "err "):
			return reply, &RemoteError{Command: firstField(line), Message: resp[4:]}
		case resp == "err":
			return reply, &RemoteError{Command: firstField(line)}
		default:
			// Echoed input or noise from a previous session
			if resp == line {
				continue
			}
			return reply, fmt.Errorf("%w: %q", ErrBadReply, resp)
		}
	}
}

// Command formats name and args as one request and sends it. Arguments
// are quoted where needed so the firmware splits them back unchanged.
func (c *Client) Command(name string, args ...string) (*Reply, error) {
	fields := make([]string, 0, len(args)+1)
	fields = append(fields, quoteArg(name))
	for _, a := range args {
		fields = append(fields, quoteArg(a))
	}
	return c.Do(strings.Join(fields, " "))
}

// quoteArg double-quotes s when it is empty or holds whitespace, quotes,
// backslashes or a comment marker
func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\r\n'\"\\#") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

// readLine returns the next line, without its terminator
func (c *Client) readLine(deadline time.Time) (string, error) {
	for {
		for i, b := range c.buf {
			if b == '\n' {
				line := strings.TrimRight(string(c.buf[:i]), "\r")
				c.buf = c.buf[i+1:]
				return line, nil
			}
		}

		if time.Now().After(deadline) {
			return "", ErrTimeout
		}
		n, err := c.port.Read(c.scratch[:])
		c.buf = append(c.buf, c.scratch[:n]...)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read reply: %w", err)
		}
	}
}

func firstField(line string) string {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i]
	}
	return line
}

// Typed helpers over the console commands

func (c *Client) value(r *Reply, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if len(r.Values) != 1 {
		return "", ErrBadReply
	}
	return r.Values[0], nil
}

// query runs a command whose reply is one unsigned number of bits width
func (c *Client) query(bits int, name string, args ...string) (uint64, error) {
	s, err := c.value(c.Command(name, args...))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return v, nil
}

// Begin initialises the expander
func (c *Client) Begin() error {
	_, err := c.Command("exp_begin")
	return err
}

// PinMode sets pin to "in", "pullup" or "out"
func (c *Client) PinMode(pin uint8, mode string) error {
	_, err := c.Command("exp_mode", strconv.Itoa(int(pin)), mode)
	return err
}

// DigitalWrite drives pin high or low
func (c *Client) DigitalWrite(pin uint8, value bool) error {
	_, err := c.Command("exp_write", strconv.Itoa(int(pin)), boolArg(value))
	return err
}

// DigitalRead returns the level of pin
func (c *Client) DigitalRead(pin uint8) (bool, error) {
	v, err := c.query(1, "exp_read", strconv.Itoa(int(pin)))
	return v == 1, err
}

// Write8 sets the output levels of port 0 (A) or 1 (B)
func (c *Client) Write8(port uint8, value uint8) error {
	_, err := c.Command("exp_write8", strconv.Itoa(int(port)), hex(uint64(value)))
	return err
}

// Read8 returns the levels of port 0 (A) or 1 (B)
func (c *Client) Read8(port uint8) (uint8, error) {
	v, err := c.query(8, "exp_read8", strconv.Itoa(int(port)))
	return uint8(v), err
}

// Write16 sets the output levels of all 16 pins, port A in the high byte
func (c *Client) Write16(value uint16) error {
	_, err := c.Command("exp_write16", hex(uint64(value)))
	return err
}

// Read16 returns the levels of all 16 pins, port A in the high byte
func (c *Client) Read16() (uint16, error) {
	v, err := c.query(16, "exp_read16")
	return uint16(v), err
}

// LastError reads and clears the firmware's driver error code
func (c *Client) LastError() (uint8, error) {
	v, err := c.query(8, "exp_error")
	return uint8(v), err
}

// RotaryValue returns the count of encoder n
func (c *Client) RotaryValue(n uint8) (int32, error) {
	s, err := c.value(c.Command("rot_get", strconv.Itoa(int(n))))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return int32(v), nil
}

// RotaryUpdate polls the rotary decoder and reports whether anything moved
func (c *Client) RotaryUpdate() (bool, error) {
	v, err := c.query(1, "rot_update")
	return v == 1, err
}

func boolArg(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
