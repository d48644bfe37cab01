package processor

import (
	"context"

	"nekocmd/pkg/commands"
)

// EventData is handed to the second conversion stage once a command has
// been resolved. Commands and Modules are read-only snapshots.
type EventData struct {
	Command   *commands.Command
	Commands  map[string]*commands.Command
	Modules   map[string]*commands.Module
	Processor *Processor
}

// Converter maps raw events of one platform into the types used by the
// pipeline.
type Converter[S, A, E any] interface {
	// Text returns the raw text of the event.
	Text(event S) string

	// ToArgumentContext builds the context passed to arguments while
	// parsing.
	ToArgumentContext(ctx context.Context, event S) (A, error)

	// ToCommandEvent builds the event passed to preconditions and the
	// command body.
	ToCommandEvent(ctx context.Context, argCtx A, data EventData) (E, error)
}
