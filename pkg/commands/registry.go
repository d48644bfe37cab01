package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry resolves command and alias names across all registered modules.
type Registry struct {
	modules  map[string]*Module
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:  make(map[string]*Module),
		commands: make(map[string]*Command),
	}
}

// AddModule registers every command of m. A name collision with any
// registered command or alias fails without registering anything. A module
// whose name is already registered is merged into the existing module.
func (r *Registry) AddModule(m *Module) error {
	if m == nil {
		return ErrNilModule
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, merge := r.modules[m.Name]
	if merge && existing.key != m.key {
		return fmt.Errorf("%w: %s", ErrContextMismatch, m.Name)
	}

	for name := range m.commands {
		if owner, exists := r.commands[name]; exists {
			return fmt.Errorf("%w: %s (already registered by module %s)",
				ErrDuplicateCommandName, name, owner.Module.Name)
		}
	}

	target := m
	if merge {
		target = existing
		for name, cmd := range m.commands {
			existing.commands[name] = cmd
		}
	} else {
		r.modules[m.Name] = m
	}

	for name, cmd := range m.commands {
		cmd.Module = target
		r.commands[name] = cmd
	}
	return nil
}

// RemoveModule unregisters a module and all of its command names.
func (r *Registry) RemoveModule(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.modules[name]
	if !ok {
		return false
	}
	for cmdName := range m.commands {
		delete(r.commands, cmdName)
	}
	delete(r.modules, name)
	return true
}

// Lookup resolves a command or alias name. Names are case-sensitive.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// LookupIn resolves name among the commands bound to key.
func (r *Registry) LookupIn(key Key, name string) (*Command, bool) {
	cmd, ok := r.Lookup(name)
	if !ok || cmd.key != key {
		return nil, false
	}
	return cmd, true
}

// Commands returns a snapshot of every entry by name.
func (r *Registry) Commands() map[string]*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Command, len(r.commands))
	for name, cmd := range r.commands {
		out[name] = cmd
	}
	return out
}

// Modules returns a snapshot of the registered modules by name.
func (r *Registry) Modules() map[string]*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Module, len(r.modules))
	for name, m := range r.modules {
		out[name] = m
	}
	return out
}

// List returns all canonical commands sorted by name.
func (r *Registry) List() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return canonical(r.commands)
}

// ModuleNames returns the registered module names sorted.
func (r *Registry) ModuleNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
