package processor

import (
	"context"

	"nekocmd/pkg/commands"
)

// EventSource produces raw events for one context. Each call to Events
// starts a new subscription that ends when ctx is cancelled.
type EventSource[S any] interface {
	// Name identifies the source in logs.
	Name() string

	// Context returns the key of the context the events belong to.
	Context() commands.Key

	// Events subscribes to the source. The channel is closed when the
	// subscription ends.
	Events(ctx context.Context) (<-chan S, error)
}

// Filter decides whether an event enters the pipeline.
type Filter[S any] func(ctx context.Context, event S) bool
