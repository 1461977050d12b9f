package source

import (
	"context"
	"log/slog"
	"time"
)

// Source is a node with no data inputs that produces records autonomously
// and emits them on its output ports. Construction happens in a factory
// registered with the registry; Run and Finalize are driven by the runtime,
// each at most once per instance, never concurrently.
type Source interface {
	// Run drives the node's production loop until it has no more data to
	// produce or ctx is cancelled. A node observing cancellation must stop
	// sending and return promptly, without treating the cancellation as a
	// failure. Unrecoverable faults are returned as a *ProductionError;
	// single bad readings are handled internally and never surface here.
	Run(ctx context.Context) error

	// Finalize releases every resource acquired during construction and Run.
	// It is called exactly once, after Run has returned, regardless of
	// whether Run succeeded, was cancelled, or failed.
	Finalize() error
}

// NodeContext is the runtime-provided handle a node receives at
// construction. It exposes shared facilities without exposing the scheduler:
// the node queries it, never mutates it. Cancellation is delivered through
// the context passed to Run.
type NodeContext struct {
	// Name is the instance name from the flow file.
	Name string
	// Type is the registered source type the instance was built from.
	Type string
	// Logger is scoped to this node instance.
	Logger *slog.Logger
	// Now is the runtime clock. Nodes use it instead of time.Now so tests
	// can substitute a fixed clock.
	Now func() time.Time
}
