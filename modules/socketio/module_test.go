package socketio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/source"
	"github.com/vk/flowgridgo/internal/testutil"
	"github.com/vk/flowgridgo/modules/socketio"
)

func TestSocketIOUnreachableServer(t *testing.T) {
	// Nothing listens on port 1; construction must fail before any node runs.
	res := testutil.RunFlow(t, `
source "socketio" "feed" {
  arguments {
    url             = "http://127.0.0.1:1"
    on_event        = "message"
    connect_timeout = "750ms"
  }
}
`, &socketio.Module{})

	require.Error(t, res.Err)
	var resErr *source.ResourceError
	require.ErrorAs(t, res.Err, &resErr)
	assert.Equal(t, "http://127.0.0.1:1", resErr.Resource)
	assert.Zero(t, res.Records.Len())
}

func TestSocketIOConfigValidation(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "socketio" "feed" {
  arguments {
    on_event = "message"
  }
}
`, &socketio.Module{})

		require.Error(t, res.Err)
		var cfgErr *source.ConfigurationError
		require.ErrorAs(t, res.Err, &cfgErr)
		assert.Equal(t, "url", cfgErr.Key)
	})

	t.Run("missing on_event", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "socketio" "feed" {
  arguments {
    url = "http://127.0.0.1:1"
  }
}
`, &socketio.Module{})

		require.Error(t, res.Err)
		var cfgErr *source.ConfigurationError
		require.ErrorAs(t, res.Err, &cfgErr)
		assert.Equal(t, "on_event", cfgErr.Key)
	})

	t.Run("bad connect_timeout", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "socketio" "feed" {
  arguments {
    url             = "http://127.0.0.1:1"
    on_event        = "message"
    connect_timeout = "soon"
  }
}
`, &socketio.Module{})

		require.Error(t, res.Err)
		var cfgErr *source.ConfigurationError
		require.ErrorAs(t, res.Err, &cfgErr)
		assert.Equal(t, "connect_timeout", cfgErr.Key)
	})
}
