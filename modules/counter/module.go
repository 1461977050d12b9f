// Package counter provides a bounded integer source: it emits the integers
// 0..count-1 on its "out" port and then completes.
package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the counter source type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSource("counter", &registry.RegisteredSource{
		Factory:     newSource,
		Ports:       []string{"out"},
		Description: "Emits the integers 0..count-1, then completes.",
	})
}

type counterSource struct {
	source.Unimplemented

	count  int
	out    *output.Output
	logger *slog.Logger
}

func newSource(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error) {
	count, err := cfg.Int("count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &source.ConfigurationError{Key: "count", Err: errors.New("cannot be negative")}
	}
	out, err := outs.Lookup("out")
	if err != nil {
		return nil, &source.ConfigurationError{Key: "out", Err: err}
	}
	return &counterSource{count: count, out: out, logger: nc.Logger}, nil
}

func (s *counterSource) Run(ctx context.Context) error {
	for i := 0; i < s.count; i++ {
		if err := s.out.Send(ctx, i); err != nil {
			if ctx.Err() != nil {
				s.logger.Debug("Cancelled mid-count.", "emitted", i)
				return nil
			}
			return &source.ProductionError{Port: "out", Err: fmt.Errorf("emitting %d: %w", i, err)}
		}
	}
	s.logger.Debug("Count exhausted.", "emitted", s.count)
	return nil
}

func (s *counterSource) Finalize() error {
	return nil
}
