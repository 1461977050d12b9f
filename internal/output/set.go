package output

import (
	"fmt"
	"sort"
)

// Set is the immutable port-name to Output mapping handed to a node at
// construction. Nodes look ports up and send; they cannot add, remove, or
// close entries.
type Set struct {
	outputs map[string]*Output
}

// NewSet builds a Set from port names to channel buffer sizes.
func NewSet(ports map[string]int) *Set {
	outputs := make(map[string]*Output, len(ports))
	for name, buffer := range ports {
		outputs[name] = newOutput(name, buffer)
	}
	return &Set{outputs: outputs}
}

// Lookup returns the port with the given name. Factories resolve their
// ports once at construction and fail fast on a miss.
func (s *Set) Lookup(name string) (*Output, error) {
	out, ok := s.outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPort, name)
	}
	return out, nil
}

// Names returns the wired port names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.outputs))
	for name := range s.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every port in the set. The runtime calls it exactly once,
// after the owning node's Run has returned, so drain loops terminate.
func (s *Set) Close() {
	for _, out := range s.outputs {
		out.close()
	}
}
