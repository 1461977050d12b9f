// Package socketio provides a source that subscribes to a socket.io event
// and emits every received payload on its "out" port until cancelled. The
// connection is established during construction so an unreachable server
// fails the graph before anything runs.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the socketio source type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSource("socketio", &registry.RegisteredSource{
		Factory:     newSource,
		Ports:       []string{"out"},
		Description: "Subscribes to a socket.io event and emits each payload.",
	})
}

// eventBuffer bounds how many payloads may pile up between the socket
// callback and the production loop.
const eventBuffer = 64

type socketSource struct {
	source.Unimplemented

	event  string
	io     *socket.Socket
	events chan any
	out    *output.Output
	logger *slog.Logger
}

func newSource(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error) {
	rawURL, err := cfg.String("url")
	if err != nil {
		return nil, err
	}
	event, err := cfg.String("on_event")
	if err != nil {
		return nil, err
	}
	namespace, err := cfg.OptionalString("namespace", "/")
	if err != nil {
		return nil, err
	}
	connectTimeout, err := cfg.OptionalDuration("connect_timeout", 10*time.Second)
	if err != nil {
		return nil, err
	}
	insecure, err := cfg.OptionalBool("insecure_skip_verify", false)
	if err != nil {
		return nil, err
	}
	out, err := outs.Lookup("out")
	if err != nil {
		return nil, &source.ConfigurationError{Key: "out", Err: err}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &source.ConfigurationError{Key: "url", Err: err}
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if insecure {
		nc.Logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	s := &socketSource{
		event:  event,
		events: make(chan any, eventBuffer),
		out:    out,
		logger: nc.Logger,
	}

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	s.io = io

	// The client may retry and fire these events again; only the first
	// outcome matters and later sends must not block its callbacks.
	connected := make(chan error, 1)
	report := func(err error) {
		select {
		case connected <- err:
		default:
		}
	}
	io.On(types.EventName("connect"), func(...any) {
		s.logger.Info("Connected.", "namespace", namespace, "sid", io.Id())
		report(nil)
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				report(e)
				return
			}
		}
		report(errors.New("connect_error"))
	})
	io.On(types.EventName(event), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		select {
		case s.events <- payload:
		default:
			// One dropped event is a recoverable fault; the feed goes on.
			s.logger.Warn("Event buffer full, dropping payload.", "event", event)
		}
	})

	io.Connect()
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, &source.ResourceError{Resource: rawURL, Err: err}
		}
	case <-time.After(connectTimeout):
		io.Disconnect()
		return nil, &source.ResourceError{
			Resource: rawURL,
			Err:      fmt.Errorf("no connection within %s", connectTimeout),
		}
	}

	return s, nil
}

func (s *socketSource) Run(ctx context.Context) error {
	emitted := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cancelled.", "emitted", emitted)
			return nil
		case payload := <-s.events:
			if err := s.out.Send(ctx, payload); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return &source.ProductionError{Port: "out", Err: err}
			}
			emitted++
		}
	}
}

func (s *socketSource) Finalize() error {
	s.logger.Debug("Disconnecting socket client.")
	s.io.Disconnect()
	return nil
}
