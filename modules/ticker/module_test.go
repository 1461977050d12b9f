package ticker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/source"
	"github.com/vk/flowgridgo/internal/testutil"
	"github.com/vk/flowgridgo/modules/ticker"
)

func TestTickerEmitsUpToLimit(t *testing.T) {
	res := testutil.RunFlow(t, `
source "ticker" "beat" {
  arguments {
    interval = "2ms"
    limit    = 3
  }
}
`, &ticker.Module{})

	require.NoError(t, res.Err)
	payloads := res.Records.Payloads("beat", "out")
	require.Len(t, payloads, 3)
	for i, p := range payloads {
		tick, ok := p.(ticker.Tick)
		require.True(t, ok)
		assert.Equal(t, i, tick.Seq)
		assert.False(t, tick.At.IsZero())
	}
}

func TestTickerStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	res := testutil.RunFlowWithContext(ctx, t, `
source "ticker" "beat" {
  arguments {
    interval = "2ms"
  }
}
`, time.Second, &ticker.Module{})

	// An unbounded ticker terminates cleanly once cancelled.
	require.NoError(t, res.Err)
	assert.Positive(t, res.Records.Len())
}

func TestTickerConfigValidation(t *testing.T) {
	t.Run("missing interval", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "ticker" "beat" {
  arguments {}
}
`, &ticker.Module{})
		var cfgErr *source.ConfigurationError
		require.ErrorAs(t, res.Err, &cfgErr)
		assert.Equal(t, "interval", cfgErr.Key)
	})

	t.Run("non-positive interval", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "ticker" "beat" {
  arguments {
    interval = "0s"
  }
}
`, &ticker.Module{})
		var cfgErr *source.ConfigurationError
		assert.ErrorAs(t, res.Err, &cfgErr)
	})

	t.Run("negative limit", func(t *testing.T) {
		res := testutil.RunFlow(t, `
source "ticker" "beat" {
  arguments {
    interval = "1ms"
    limit    = -1
  }
}
`, &ticker.Module{})
		var cfgErr *source.ConfigurationError
		assert.ErrorAs(t, res.Err, &cfgErr)
	})
}
