package registry

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/ctxlog"
)

// Validate checks the registry's integrity at load time, before any node is
// constructed: every type must carry a factory and declare at least one
// default port. Catching a nil factory here turns what would be a runtime
// unimplemented-operation failure into a startup error.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for name, rs := range r.sources {
		if rs == nil || rs.Factory == nil {
			return fmt.Errorf("source type %q registered without a factory", name)
		}
		if len(rs.Ports) == 0 {
			return fmt.Errorf("source type %q declares no default output ports", name)
		}
	}
	logger.Debug("Registry validation passed.", "types", len(r.sources))
	return nil
}
