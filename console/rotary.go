package console

import (
	"tinyperiph/core"
)

func (c *Console) registerRotaryCommands() {
	r := c.registry

	r.Register("rot_init", "", c.withRotary(func(args []string) (string, error) {
		return "", c.rot.ReadInitialState()
	}))
	r.Register("rot_check", "", c.withRotary(func(args []string) (string, error) {
		changed, err := c.rot.CheckChange()
		return boolString(changed), err
	}))
	r.Register("rot_update", "[single]", c.withRotary(func(args []string) (string, error) {
		update := c.rot.Update
		if len(args) == 1 && args[0] == "single" {
			update = c.rot.UpdateSingle
		} else if len(args) != 0 {
			return "", ErrUsage
		}
		changed, err := update()
		return boolString(changed), err
	}))
	r.Register("rot_get", "<n>", c.withRotary(func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}
		n, err := core.ParseUint(args[0], 8)
		if err != nil {
			return "", err
		}
		return core.Itoa(int(c.rot.Value(uint8(n)))), nil
	}))
	r.Register("rot_set", "<n> [value]", c.withRotary(func(args []string) (string, error) {
		if len(args) < 1 || len(args) > 2 {
			return "", ErrUsage
		}
		n, err := core.ParseUint(args[0], 8)
		if err != nil {
			return "", err
		}
		var value int32
		if len(args) == 2 {
			if value, err = core.ParseInt(args[1]); err != nil {
				return "", err
			}
		}
		c.rot.SetValue(uint8(n), value)
		return "", nil
	}))
	r.Register("rot_pos", "<n>", c.withRotary(func(args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}
		n, err := core.ParseUint(args[0], 8)
		if err != nil {
			return "", err
		}
		return core.Utoa(uint32(c.rot.LastPosition(uint8(n)))), nil
	}))
}

// withRotary rejects the command when no decoder is fitted
func (c *Console) withRotary(h core.CommandHandler) core.CommandHandler {
	return func(args []string) (string, error) {
		if c.rot == nil {
			return "", ErrNoRotary
		}
		return h(args)
	}
}
