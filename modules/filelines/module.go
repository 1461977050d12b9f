// Package filelines provides a finite source that reads a text file line by
// line and emits each line on its "out" port. The file is opened during
// construction so a missing file fails the graph before anything runs.
package filelines

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/source"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the filelines source type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSource("filelines", &registry.RegisteredSource{
		Factory:     newSource,
		Ports:       []string{"out"},
		Description: "Emits each line of a text file, then completes.",
	})
}

type fileSource struct {
	source.Unimplemented

	path   string
	file   *os.File
	out    *output.Output
	logger *slog.Logger
}

func newSource(nc *source.NodeContext, cfg *config.Map, outs *output.Set) (source.Source, error) {
	path, err := cfg.String("path")
	if err != nil {
		return nil, err
	}
	out, err := outs.Lookup("out")
	if err != nil {
		return nil, &source.ConfigurationError{Key: "out", Err: err}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &source.ResourceError{Resource: path, Err: err}
	}
	return &fileSource{path: path, file: file, out: out, logger: nc.Logger}, nil
}

func (s *fileSource) Run(ctx context.Context) error {
	reader := bufio.NewReader(s.file)
	skipped := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			line = trimNewline(line)
			// A line that is not valid UTF-8 is one bad reading, not a
			// failure of the whole run.
			if !utf8.ValidString(line) {
				skipped++
				s.logger.Warn("Skipping non-UTF-8 line.", "path", s.path, "skipped", skipped)
			} else if sendErr := s.out.Send(ctx, line); sendErr != nil {
				if ctx.Err() != nil {
					return nil
				}
				return &source.ProductionError{Port: "out", Err: sendErr}
			}
		}
		if err == io.EOF {
			s.logger.Debug("Reached end of file.", "path", s.path)
			return nil
		}
		if err != nil {
			return &source.ProductionError{Err: fmt.Errorf("reading %s: %w", s.path, err)}
		}
	}
}

func (s *fileSource) Finalize() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", s.path, err)
	}
	return nil
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}
