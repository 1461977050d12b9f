package socketio

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/output"
)

func newTestSource(t *testing.T) (*socketSource, *output.Output) {
	t.Helper()

	outs := output.NewSet(map[string]int{"out": 4})
	out, err := outs.Lookup("out")
	require.NoError(t, err)

	return &socketSource{
		event:  "message",
		events: make(chan any, eventBuffer),
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, out
}

func TestRunEmitsBufferedEventsInOrder(t *testing.T) {
	s, out := newTestSource(t)

	s.events <- "first"
	s.events <- "second"
	s.events <- "third"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var got []any
	for i := 0; i < 3; i++ {
		rec := <-out.Receive()
		got = append(got, rec.Payload)
	}
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, []any{"first", "second", "third"}, got)
}

func TestRunStopsOnCancellation(t *testing.T) {
	s, _ := newTestSource(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
