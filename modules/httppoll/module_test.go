package httppoll_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/source"
	"github.com/vk/flowgridgo/internal/testutil"
	"github.com/vk/flowgridgo/modules/httppoll"
)

func TestHTTPPollEmitsResponses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "payload-%d", calls.Add(1))
	}))
	defer server.Close()

	res := testutil.RunFlow(t, fmt.Sprintf(`
source "httppoll" "poller" {
  arguments {
    url      = %q
    interval = "2ms"
    limit    = 2
  }
}
`, server.URL), &httppoll.Module{})

	require.NoError(t, res.Err)
	payloads := res.Records.Payloads("poller", "out")
	require.Len(t, payloads, 2)

	first, ok := payloads[0].(*httppoll.Response)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "payload-1", string(first.Body))
	assert.False(t, first.FetchedAt.IsZero())
}

func TestHTTPPollSkipsFailedPolls(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "recovered")
	}))
	defer server.Close()

	res := testutil.RunFlow(t, fmt.Sprintf(`
source "httppoll" "poller" {
  arguments {
    url      = %q
    interval = "2ms"
    limit    = 2
  }
}
`, server.URL), &httppoll.Module{})

	// The failing first poll is absorbed; only the good one is emitted.
	require.NoError(t, res.Err)
	payloads := res.Records.Payloads("poller", "out")
	require.Len(t, payloads, 1)
	resp := payloads[0].(*httppoll.Response)
	assert.Equal(t, "recovered", string(resp.Body))
}

func TestHTTPPollConfigValidation(t *testing.T) {
	t.Run("relative url", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "httppoll" "poller" {
  arguments {
    url      = "/just/a/path"
    interval = "1s"
  }
}
`, &httppoll.Module{})
		var cfgErr *source.ConfigurationError
		require.ErrorAs(t, res.Err, &cfgErr)
		assert.Equal(t, "url", cfgErr.Key)
	})

	t.Run("missing interval", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "httppoll" "poller" {
  arguments {
    url = "http://localhost:1/x"
  }
}
`, &httppoll.Module{})
		var cfgErr *source.ConfigurationError
		require.ErrorAs(t, res.Err, &cfgErr)
		assert.Equal(t, "interval", cfgErr.Key)
	})
}
