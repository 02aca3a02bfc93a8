package command

import "sort"

// Registry stores commands by name. It is an owned object handed to the
// dispatcher at construction, not a package global, so tests can build
// isolated registries. Not safe for registration after dispatch starts.
type Registry struct {
	commands map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a command, applying middlewares with the first listed
// as the outermost wrapper.
func (r *Registry) Register(c Command, mws ...Middleware) {
	r.commands[c.Name()] = Apply(c, mws...)
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) Command {
	return r.commands[name]
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
