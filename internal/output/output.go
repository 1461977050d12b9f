// Package output provides the named, write-only ports a source node emits
// records through. The runtime builds the full port set before constructing
// a node; the node only ever sends through the handles it was given.
package output

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send once the runtime has closed the port. A
// well-behaved node never sees it because ports close only after Run has
// returned; a send that does is one that escaped the production loop.
var ErrClosed = errors.New("output port closed")

// ErrUnknownPort is returned when a node looks up a port name the runtime
// never wired.
var ErrUnknownPort = errors.New("unknown output port")

// Record is one emitted unit of data together with the port it targets.
// Ownership of the payload transfers to the consumer on delivery.
type Record struct {
	Port    string
	Payload any
}

// Output is a single named port. Sends on the same Output are delivered in
// the order they were issued; no ordering holds across different ports.
type Output struct {
	name      string
	ch        chan Record
	done      chan struct{}
	closeOnce sync.Once
}

func newOutput(name string, buffer int) *Output {
	return &Output{
		name: name,
		ch:   make(chan Record, buffer),
		done: make(chan struct{}),
	}
}

// Name returns the port name.
func (o *Output) Name() string { return o.name }

// Send delivers payload on this port, yielding to the scheduler while the
// downstream side applies backpressure. Once ctx is cancelled Send stops
// delivering and returns ctx.Err(), even if buffer space is available.
func (o *Output) Send(ctx context.Context, payload any) error {
	select {
	case <-o.done:
		return ErrClosed
	default:
	}
	// Observe cancellation before attempting delivery so a node polling its
	// send results stops emitting as soon as the signal lands.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case o.ch <- Record{Port: o.name, Payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-o.done:
		return ErrClosed
	}
}

// Receive exposes the delivery side of the port. Only the runtime's drain
// loop reads from it.
func (o *Output) Receive() <-chan Record {
	return o.ch
}

// Done is closed when the port is. The drain loop uses it to know when to
// flush remaining buffered records and stop.
func (o *Output) Done() <-chan struct{} {
	return o.done
}

// close marks the port closed. The record channel itself is never closed:
// a node abandoned after the cancellation grace period may still attempt
// sends, and those must fail with ErrClosed rather than panic.
func (o *Output) close() {
	o.closeOnce.Do(func() { close(o.done) })
}
