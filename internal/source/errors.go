package source

import (
	"errors"
	"fmt"
)

// ErrUnimplemented is returned by lifecycle operations a concrete source
// never provided. Hitting it is an integration bug, not a runtime condition.
var ErrUnimplemented = errors.New("lifecycle operation not implemented")

// ConfigurationError reports missing or malformed configuration. It is only
// produced during construction; nodes validate their configuration eagerly
// rather than deferring failures into Run.
type ConfigurationError struct {
	// Key is the configuration key at fault, when one can be named.
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration key %q: %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ResourceError reports an external dependency (file, device, connection)
// that could not be acquired during construction.
type ResourceError struct {
	// Resource names the dependency that failed, e.g. a path or URL.
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %q unavailable: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ProductionError reports an unrecoverable fault while generating or
// emitting data during Run.
type ProductionError struct {
	// Port is the output port involved, when the fault is tied to one.
	Port string
	Err  error
}

func (e *ProductionError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("production: %v", e.Err)
	}
	return fmt.Sprintf("production on port %q: %v", e.Port, e.Err)
}

func (e *ProductionError) Unwrap() error { return e.Err }

// FinalizationError reports a fault while releasing a node's resources. It
// is terminal only for that node's teardown; the runtime reports it and
// keeps finalizing the rest of the graph.
type FinalizationError struct {
	Err error
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("finalization: %v", e.Err)
}

func (e *FinalizationError) Unwrap() error { return e.Err }
