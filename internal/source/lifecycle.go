package source

import (
	"fmt"
	"sync/atomic"
)

// State is the position of a node instance in its lifecycle.
type State int32

const (
	// Uninitialized is the state before the factory has run.
	Uninitialized State = iota
	// Initialized means construction succeeded and Run has not started.
	Initialized
	// Running means the single Run call is in flight.
	Running
	// Finalized is terminal; no further lifecycle calls are made.
	Finalized
	// Failed is the absorbing error state. The only transition out of it is
	// to Finalized, so a failed node still gets its cleanup call.
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Finalized:
		return "finalized"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// LifecycleError reports an attempted lifecycle call that the state machine
// forbids, such as running a node twice or finalizing one that was never
// constructed. These are runtime integration bugs surfaced as explicit
// errors rather than undefined behavior.
type LifecycleError struct {
	Op   string
	From State
	To   State
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("illegal lifecycle transition %s -> %s during %s", e.From, e.To, e.Op)
}

// Lifecycle tracks one node instance's state with atomic transitions. The
// runtime owns one per instance; nodes never see it.
type Lifecycle struct {
	state atomic.Int32
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Transition moves the machine to next, or returns a *LifecycleError naming
// the offending operation when the move is not allowed from the current
// state. It is safe under concurrent use.
func (l *Lifecycle) Transition(op string, next State) error {
	for {
		cur := State(l.state.Load())
		if !legal(cur, next) {
			return &LifecycleError{Op: op, From: cur, To: next}
		}
		if l.state.CompareAndSwap(int32(cur), int32(next)) {
			return nil
		}
	}
}

func legal(from, to State) bool {
	switch from {
	case Uninitialized:
		return to == Initialized || to == Failed
	case Initialized:
		// Initialized -> Finalized covers rollback of instances that were
		// constructed before a sibling's construction aborted the graph.
		return to == Running || to == Finalized || to == Failed
	case Running:
		return to == Finalized || to == Failed
	case Failed:
		return to == Finalized
	}
	return false
}
