// Package flow loads the HCL flow files that declare which sources a
// runtime instance hosts: one source block per node, its arguments, and the
// output ports it is entitled to write to.
package flow

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Model is the loaded, format-agnostic description of a flow.
type Model struct {
	// GracePeriod overrides the runtime's cancellation grace period when
	// positive.
	GracePeriod time.Duration
	// Sources lists the declared source instances in file order.
	Sources []*SourceDecl
}

// SourceDecl is one declared source instance.
type SourceDecl struct {
	// Type is the registered source type to instantiate.
	Type string
	// Name is the unique instance name.
	Name string
	// Arguments holds the evaluated arguments block.
	Arguments map[string]cty.Value
	// Ports lists declared output ports. Empty means the type's default
	// ports are wired.
	Ports []PortDecl
}

// PortDecl is one declared output port.
type PortDecl struct {
	Name   string
	Buffer int
}
