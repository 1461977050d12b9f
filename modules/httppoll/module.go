// Package httppoll provides a polling source that fetches a URL on a fixed
// interval and emits each response body on its "out" port. Individual
// request failures are recoverable: the poll is skipped and the loop
// continues.
package httppoll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the httppoll source type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSource("httppoll", &registry.RegisteredSource{
		Factory:     newSource,
		Ports:       []string{"out"},
		Description: "Polls a URL on an interval and emits each response body.",
	})
}

// Response is the payload emitted for each successful poll.
type Response struct {
	StatusCode int
	Body       []byte
	FetchedAt  time.Time
}

type pollSource struct {
	source.Unimplemented

	url      string
	interval time.Duration
	limit    int // 0 means unbounded
	client   *http.Client
	out      *output.Output
	now      func() time.Time
	logger   *slog.Logger
}

func newSource(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error) {
	rawURL, err := cfg.String("url")
	if err != nil {
		return nil, err
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &source.ConfigurationError{Key: "url", Err: fmt.Errorf("not an absolute URL: %q", rawURL)}
	}
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
	timeout, err := cfg.OptionalDuration("timeout", 10*time.Second)
	if err != nil {
		return nil, err
	}
	out, err := outs.Lookup("out")
	if err != nil {
		return nil, &source.ConfigurationError{Key: "out", Err: err}
	}
	return &pollSource{
		url:      rawURL,
		interval: interval,
		limit:    limit,
		client:   &http.Client{Timeout: timeout},
		out:      out,
		now:      nc.Now,
		logger:   nc.Logger,
	}, nil
}

func (s *pollSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	polls := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cancelled.", "polls", polls)
			return nil
		case <-ticker.C:
		}

		resp, err := s.poll(ctx)
		polls++
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// One failed poll is a recoverable fault: skip and continue.
			s.logger.Warn("Poll failed, skipping.", "url", s.url, "error", err)
		} else if sendErr := s.out.Send(ctx, resp); sendErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			return &source.ProductionError{Port: "out", Err: sendErr}
		}

		if s.limit > 0 && polls >= s.limit {
			s.logger.Debug("Poll limit reached.", "polls", polls)
			return nil
		}
	}
}

func (s *pollSource) poll(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body, FetchedAt: s.now()}, nil
}

func (s *pollSource) Finalize() error {
	s.client.CloseIdleConnections()
	return nil
}
