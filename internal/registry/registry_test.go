package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/source"
)

func noopFactory(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error) {
	return nil, nil
}

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.RegisterSource("probe", &RegisteredSource{Factory: noopFactory, Ports: []string{"out"}})

	rs, ok := r.Source("probe")
	require.True(t, ok)
	assert.Equal(t, []string{"out"}, rs.Ports)

	_, ok = r.Source("ghost")
	assert.False(t, ok)

	assert.Equal(t, []string{"probe"}, r.Types())
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	r := New()
	r.RegisterSource("probe", &RegisteredSource{Factory: noopFactory, Ports: []string{"out"}})
	assert.Panics(t, func() {
		r.RegisterSource("probe", &RegisteredSource{Factory: noopFactory, Ports: []string{"out"}})
	})
}

func TestValidate(t *testing.T) {
	t.Run("passes for complete entries", func(t *testing.T) {
		r := New()
		r.RegisterSource("probe", &RegisteredSource{Factory: noopFactory, Ports: []string{"out"}})
		assert.NoError(t, r.Validate(testCtx()))
	})

	t.Run("rejects nil factory", func(t *testing.T) {
		r := New()
		r.RegisterSource("broken", &RegisteredSource{Ports: []string{"out"}})
		err := r.Validate(testCtx())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("rejects missing default ports", func(t *testing.T) {
		r := New()
		r.RegisterSource("portless", &RegisteredSource{Factory: noopFactory})
		assert.Error(t, r.Validate(testCtx()))
	})
}
