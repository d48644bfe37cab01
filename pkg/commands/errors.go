package commands

import "errors"

// Registration errors. They are fatal to startup.
var (
	// ErrDuplicateCommandName indicates a command or alias name is already taken.
	ErrDuplicateCommandName = errors.New("commands: duplicate command name")

	// ErrInvalidName indicates an empty module name, or a command or alias
	// name that is empty or contains a space.
	ErrInvalidName = errors.New("commands: invalid name")

	// ErrMissingInvoke indicates a command was declared without a handler body.
	ErrMissingInvoke = errors.New("commands: command has no invoke body")

	// ErrContextMismatch indicates two modules with the same name belong to different contexts.
	ErrContextMismatch = errors.New("commands: module context mismatch")

	// ErrNilModule indicates a nil module was registered.
	ErrNilModule = errors.New("commands: module cannot be nil")
)
