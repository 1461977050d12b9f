package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/flow"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/runtime"
)

// HarnessResult holds the outcomes of a harness run.
type HarnessResult struct {
	LogOutput string
	Err       error
	Records   *Collector
}

// RunFlow writes flowHCL to a temp file, builds a registry from the given
// modules, and runs the flow to completion under a background context.
func RunFlow(t *testing.T, flowHCL string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunFlowWithContext(context.Background(), t, flowHCL, 0, modules...)
}

// RunFlowWithContext is RunFlow with a caller-provided context and grace
// period, for cancellation tests.
func RunFlowWithContext(ctx context.Context, t *testing.T, flowHCL string, grace time.Duration, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	flowPath := filepath.Join(tmpDir, "flow.hcl")
	require.NoError(t, os.WriteFile(flowPath, []byte(flowHCL), 0o644))

	logBuf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx = ctxlog.WithLogger(ctx, logger)

	model, err := flow.Load(flowPath)
	require.NoError(t, err)

	reg := registry.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	require.NoError(t, reg.Validate(ctx))

	collector := &Collector{}
	rt := runtime.New(reg, model, runtime.Options{
		GracePeriod: grace,
		Consumer:    collector.Consume,
	})

	runErr := rt.Run(ctx)
	return &HarnessResult{
		LogOutput: logBuf.String(),
		Err:       runErr,
		Records:   collector,
	}
}
