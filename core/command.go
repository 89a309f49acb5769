package core

import (
	"errors"
	"sync"
)

var ErrUnknownCommand = errors.New("unknown command")

// CommandHandler handles one console command. args excludes the command
// name. The returned string is the reply payload; it may be empty.
type CommandHandler func(args []string) (string, error)

// Command represents a console command
type Command struct {
	ID      uint16
	Name    string
	Usage   string // Argument synopsis for help (e.g., "<pin> <0|1>")
	Handler CommandHandler
}

// CommandRegistry holds all registered commands
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[uint16]*Command
	nameToID map[string]uint16
	nextID   uint16
	help     string // Cached help text
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[uint16]*Command),
		nameToID: make(map[string]uint16),
		nextID:   0,
	}
}

// Register adds a command to the registry. Registering a name twice keeps
// the first handler and returns its ID.
func (r *CommandRegistry) Register(name string, usage string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.nameToID[name]; exists {
		return id
	}

	id := r.nextID
	r.nextID++

	cmd := &Command{
		ID:      id,
		Name:    name,
		Usage:   usage,
		Handler: handler,
	}

	r.commands[id] = cmd
	r.nameToID[name] = id

	r.rebuildHelp()

	return id
}

// GetCommand retrieves a command by ID
func (r *CommandRegistry) GetCommand(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Lookup retrieves a command by name
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Dispatch calls the handler registered under name
func (r *CommandRegistry) Dispatch(name string, args []string) (string, error) {
	cmd, ok := r.Lookup(name)
	if !ok || cmd.Handler == nil {
		return "", ErrUnknownCommand
	}

	return cmd.Handler(args)
}

// GetHelp returns one "name usage" line per command in registration order
func (r *CommandRegistry) GetHelp() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.help
}

// rebuildHelp rebuilds the help string
// Must be called with lock held
func (r *CommandRegistry) rebuildHelp() {
	help := ""
	for i := uint16(0); i < r.nextID; i++ {
		if cmd, ok := r.commands[i]; ok {
			if cmd.Usage != "" {
				help += cmd.Name + " " + cmd.Usage + "\n"
			} else {
				help += cmd.Name + "\n"
			}
		}
	}
	r.help = help
}
