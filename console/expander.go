package console

import (
	"tinyperiph/core"
	"tinyperiph/mcp23s17"
)

func (c *Console) registerExpanderCommands() {
	r := c.registry

	r.Register("exp_begin", "", func(args []string) (string, error) {
		return "", c.exp.Begin()
	})

	// Single pin
	r.Register("exp_mode", "<pin> <in|pullup|out>", func(args []string) (string, error) {
		if len(args) != 2 {
			return "", ErrUsage
		}
		pin, err := parsePin(args[0])
		if err != nil {
			return "", err
		}
		mode, err := parseMode(args[1])
		if err != nil {
			return "", err
		}
		return "", c.exp.PinMode(pin, mode)
	})
	r.Register("exp_write", "<pin> <0|1>", func(args []string) (string, error) {
		if len(args) != 2 {
			return "", ErrUsage
		}
		pin, err := parsePin(args[0])
		if err != nil {
			return "", err
		}
		v, err := parseBool(args[1])
		if err != nil {
			return "", err
		}
		return "", c.exp.DigitalWrite(pin, v)
	})
	r.Register("exp_read", "<pin>", func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}
		pin, err := parsePin(args[0])
		if err != nil {
			return "", err
		}
		v, err := c.exp.DigitalRead(pin)
		if err != nil {
			return "", err
		}
		return boolString(v), nil
	})
	r.Register("exp_polarity", "<pin> [0|1]", c.pinBitCommand(c.exp.SetPolarity, c.exp.GetPolarity))
	r.Register("exp_pullup", "<pin> [0|1]", c.pinBitCommand(c.exp.SetPullup, c.exp.GetPullup))

	// 8-bit port
	r.Register("exp_mode8", "<port> <mask>", c.portSetCommand(c.exp.PinMode8))
	r.Register("exp_write8", "<port> <value>", c.portSetCommand(c.exp.Write8))
	r.Register("exp_read8", "<port>", c.portGetCommand(c.exp.Read8))
	r.Register("exp_polarity8", "<port> [mask]", c.portBothCommand(c.exp.SetPolarity8, c.exp.GetPolarity8))
	r.Register("exp_pullup8", "<port> [mask]", c.portBothCommand(c.exp.SetPullup8, c.exp.GetPullup8))

	// 16-bit word
	r.Register("exp_mode16", "<mask>", c.wordCommand(c.exp.PinMode16, nil))
	r.Register("exp_write16", "<value>", c.wordCommand(c.exp.Write16, nil))
	r.Register("exp_read16", "", c.wordCommand(nil, c.exp.Read16))
	r.Register("exp_polarity16", "[mask]", c.wordCommand(c.exp.SetPolarity16, c.exp.GetPolarity16))
	r.Register("exp_pullup16", "[mask]", c.wordCommand(c.exp.SetPullup16, c.exp.GetPullup16))

	// Control
	r.Register("exp_haen", "<0|1>", func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}
		on, err := parseBool(args[0])
		if err != nil {
			return "", err
		}
		if on {
			return "", c.exp.EnableHardwareAddress()
		}
		return "", c.exp.DisableHardwareAddress()
	})
	r.Register("exp_speed", "[hz]", func(args []string) (string, error) {
		switch len(args) {
		case 0:
			return core.Utoa(c.exp.SPISpeed()), nil
		case 1:
			hz, err := core.ParseUint(args[0], 32)
			if err != nil {
				return "", err
			}
			return "", c.exp.SetSPISpeed(hz)
		}
		return "", ErrUsage
	})
	r.Register("exp_buserr", "", func(args []string) (string, error) {
		return "", c.exp.BusError()
	})
	r.Register("exp_error", "", func(args []string) (string, error) {
		return core.Hex8(uint8(c.exp.LastError())), nil
	})
	r.Register("exp_info", "", func(args []string) (string, error) {
		transport := "software"
		if c.exp.UsesHardwareSPI() {
			transport = "hardware"
		}
		return "addr=" + core.Itoa(int(c.exp.Address())) + " transport=" + transport, nil
	})
}

func (c *Console) pinBitCommand(set func(uint8, bool) error, get func(uint8) (bool, error)) core.CommandHandler {
	return func(args []string) (string, error) {
		if len(args) < 1 || len(args) > 2 {
			return "", ErrUsage
		}
		pin, err := parsePin(args[0])
		if err != nil {
			return "", err
		}
		if len(args) == 2 {
			on, err := parseBool(args[1])
			if err != nil {
				return "", err
			}
			return "", set(pin, on)
		}
		v, err := get(pin)
		if err != nil {
			return "", err
		}
		return boolString(v), nil
	}
}

func (c *Console) portSetCommand(set func(mcp23s17.Port, uint8) error) core.CommandHandler {
	return func(args []string) (string, error) {
		if len(args) != 2 {
			return "", ErrUsage
		}
		return c.portSet(set, args)
	}
}

func (c *Console) portGetCommand(get func(mcp23s17.Port) (uint8, error)) core.CommandHandler {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}
		return c.portGet(get, args)
	}
}

func (c *Console) portBothCommand(set func(mcp23s17.Port, uint8) error, get func(mcp23s17.Port) (uint8, error)) core.CommandHandler {
	return func(args []string) (string, error) {
		switch len(args) {
		case 1:
			return c.portGet(get, args)
		case 2:
			return c.portSet(set, args)
		}
		return "", ErrUsage
	}
}

func (c *Console) portSet(set func(mcp23s17.Port, uint8) error, args []string) (string, error) {
	port, err := parsePort(args[0])
	if err != nil {
		return "", err
	}
	v, err := core.ParseUint(args[1], 8)
	if err != nil {
		return "", err
	}
	return "", set(port, uint8(v))
}

func (c *Console) portGet(get func(mcp23s17.Port) (uint8, error), args []string) (string, error) {
	port, err := parsePort(args[0])
	if err != nil {
		return "", err
	}
	v, err := get(port)
	if err != nil {
		return "", err
	}
	return core.Hex8(v), nil
}

// wordCommand handles "[value]" commands; a nil set or get disables that form
func (c *Console) wordCommand(set func(uint16) error, get func() (uint16, error)) core.CommandHandler {
	return func(args []string) (string, error) {
		switch {
		case len(args) == 0 && get != nil:
			v, err := get()
			if err != nil {
				return "", err
			}
			return core.Hex16(v), nil
		case len(args) == 1 && set != nil:
			v, err := core.ParseUint(args[0], 16)
			if err != nil {
				return "", err
			}
			return "", set(uint16(v))
		}
		return "", ErrUsage
	}
}
