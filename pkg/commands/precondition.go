package commands

import (
	"context"
	"slices"
)

// Precondition is a named, prioritized guard evaluated against a command
// event. It may respond to the user when it rejects.
type Precondition struct {
	Name     string
	Priority int64

	check func(ctx context.Context, event any) bool
}

// NewPrecondition creates a precondition over command events of type E.
// Events of any other type are rejected.
func NewPrecondition[E any](name string, priority int64, fn func(ctx context.Context, event E) bool) Precondition {
	return Precondition{
		Name:     name,
		Priority: priority,
		check: func(ctx context.Context, event any) bool {
			e, ok := event.(E)
			if !ok {
				return false
			}
			return fn(ctx, e)
		},
	}
}

// Check evaluates the precondition.
func (p Precondition) Check(ctx context.Context, event any) bool {
	if p.check == nil {
		return true
	}
	return p.check(ctx, event)
}

// SortPreconditions returns a copy sorted by descending priority.
// Equal priorities keep declaration order.
func SortPreconditions(preconditions []Precondition) []Precondition {
	sorted := slices.Clone(preconditions)
	slices.SortStableFunc(sorted, func(a, b Precondition) int {
		switch {
		case a.Priority > b.Priority:
			return -1
		case a.Priority < b.Priority:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// RunPreconditions evaluates preconditions in priority order and stops at
// the first rejection. It returns the rejecting precondition, if any.
func RunPreconditions(ctx context.Context, preconditions []Precondition, event any) (Precondition, bool) {
	for _, p := range SortPreconditions(preconditions) {
		if !p.Check(ctx, event) {
			return p, false
		}
	}
	return Precondition{}, true
}
