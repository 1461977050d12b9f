package app

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/runtime"
)

// Run hosts the loaded flow until every source completes or ctx is
// cancelled. Emitted records are logged through the app logger.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.")

	a.logger.Info("Source types registered:", "types", a.registry.Types())

	rt := runtime.New(a.registry, a.model, runtime.Options{
		GracePeriod: a.config.GracePeriod,
		Consumer: func(node string, rec output.Record) {
			a.logger.Info("record", "node", node, "port", rec.Port, "payload", rec.Payload)
		},
	})

	a.logger.Info("Starting sources.", "count", len(a.model.Sources))
	if err := rt.Run(ctx); err != nil {
		return fmt.Errorf("flow execution failed: %w", err)
	}
	a.logger.Info("All sources finished.")

	a.logger.Debug("App.Run finished.")
	return nil
}
