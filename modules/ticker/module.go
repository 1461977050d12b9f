// Package ticker provides an interval source: it emits a timestamped tick
// on its "out" port every interval until cancelled, or until an optional
// limit is reached. It is the unbounded-feed exemplar.
package ticker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the ticker source type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSource("ticker", &registry.RegisteredSource{
		Factory:     newSource,
		Ports:       []string{"out"},
		Description: "Emits a timestamped tick per interval until cancelled.",
	})
}

// Tick is the payload emitted for each interval.
type Tick struct {
	Seq int
	At  time.Time
}

type tickerSource struct {
	source.Unimplemented

	interval time.Duration
	limit    int // 0 means unbounded
	out      *output.Output
	now      func() time.Time
	logger   *slog.Logger
}

func newSource(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error) {
	interval, err := cfg.Duration("interval")
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, &source.ConfigurationError{Key: "interval", Err: errors.New("must be positive")}
	}
	limit, err := cfg.OptionalInt("limit", 0)
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, &source.ConfigurationError{Key: "limit", Err: errors.New("cannot be negative")}
	}
	out, err := outs.Lookup("out")
	if err != nil {
		return nil, &source.ConfigurationError{Key: "out", Err: err}
	}
	return &tickerSource{
		interval: interval,
		limit:    limit,
		out:      out,
		now:      nc.Now,
		logger:   nc.Logger,
	}, nil
}

func (s *tickerSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cancelled.", "emitted", seq)
			return nil
		case <-ticker.C:
		}

		if err := s.out.Send(ctx, Tick{Seq: seq, At: s.now()}); err != nil {
			if ctx.Err() != nil {
				s.logger.Debug("Cancelled while emitting.", "emitted", seq)
				return nil
			}
			return &source.ProductionError{Port: "out", Err: err}
		}
		seq++
		if s.limit > 0 && seq >= s.limit {
			s.logger.Debug("Tick limit reached.", "emitted", seq)
			return nil
		}
	}
}

func (s *tickerSource) Finalize() error {
	return nil
}
