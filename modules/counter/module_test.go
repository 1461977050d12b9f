package counter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/source"
	"github.com/vk/flowgridgo/internal/testutil"
	"github.com/vk/flowgridgo/modules/counter"
)

func TestCounterEmitsSequence(t *testing.T) {
	res := testutil.RunFlow(t, `
source "counter" "numbers" {
  arguments {
    count = 3
  }
}
`, &counter.Module{})

	require.NoError(t, res.Err)
	assert.Equal(t, []any{0, 1, 2}, res.Records.Payloads("numbers", "out"))
}

func TestCounterZeroCount(t *testing.T) {
	res := testutil.RunFlow(t, `
source "counter" "empty" {
  arguments {
    count = 0
  }
}
`, &counter.Module{})

	require.NoError(t, res.Err)
	assert.Zero(t, res.Records.Len())
}

func TestCounterMissingCount(t *testing.T) {
	res := testutil.RunFlow(t, `
source "counter" "broken" {
  arguments {}
}
`, &counter.Module{})

	require.Error(t, res.Err)
	var cfgErr *source.ConfigurationError
	require.ErrorAs(t, res.Err, &cfgErr)
	assert.Equal(t, "count", cfgErr.Key)
}

func TestCounterNegativeCount(t *testing.T) {
	res := testutil.RunFlow(t, `
source "counter" "broken" {
  arguments {
    count = -2
  }
}
`, &counter.Module{})

	require.Error(t, res.Err)
	var cfgErr *source.ConfigurationError
	assert.ErrorAs(t, res.Err, &cfgErr)
}
