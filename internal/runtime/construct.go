package runtime

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/config"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/flow"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/source"
)

// instance pairs a constructed source with the runtime-side bookkeeping the
// node itself never sees.
type instance struct {
	name string
	typ  string
	src  source.Source
	lc   *source.Lifecycle
	outs *output.Set
}

// construct builds every declared source in flow-file order. The first
// failure aborts the whole instantiation: the failing node never gets a
// finalize call, while its already-constructed siblings are rolled back
// through theirs.
func (rt *Runtime) construct(ctx context.Context) ([]*instance, error) {
	logger := ctxlog.FromContext(ctx)

	var instances []*instance
	for _, decl := range rt.model.Sources {
		rs, ok := rt.reg.Source(decl.Type)
		if !ok {
			rt.rollback(ctx, instances)
			return nil, fmt.Errorf("instance %q: unknown source type %q", decl.Name, decl.Type)
		}

		outs := output.NewSet(portsFor(decl, rs.Ports))
		nc := &source.NodeContext{
			Name:   decl.Name,
			Type:   decl.Type,
			Logger: logger.With("node", decl.Name, "type", decl.Type),
			Now:    rt.opts.Clock,
		}

		inst := &instance{name: decl.Name, typ: decl.Type, lc: &source.Lifecycle{}, outs: outs}
		src, err := rs.Factory(nc, config.New(decl.Arguments), outs)
		if err != nil {
			_ = inst.lc.Transition("construct", source.Failed)
			logger.Error("Node construction failed.", "node", decl.Name, "error", err)
			rt.rollback(ctx, instances)
			return nil, fmt.Errorf("constructing %q: %w", decl.Name, err)
		}
		if err := inst.lc.Transition("construct", source.Initialized); err != nil {
			rt.rollback(ctx, instances)
			return nil, err
		}
		inst.src = src
		instances = append(instances, inst)
		logger.Debug("Node constructed.", "node", decl.Name, "ports", outs.Names())
	}
	return instances, nil
}

// rollback finalizes instances that were constructed before a sibling's
// construction aborted the graph. Their Run never starts.
func (rt *Runtime) rollback(ctx context.Context, instances []*instance) {
	logger := ctxlog.FromContext(ctx)
	for _, inst := range instances {
		inst.outs.Close()
		if err := rt.finalize(ctx, inst); err != nil {
			logger.Error("Rollback finalize failed.", "node", inst.name, "error", err)
		}
	}
}

func portsFor(decl *flow.SourceDecl, defaults []string) map[string]int {
	ports := make(map[string]int)
	if len(decl.Ports) > 0 {
		for _, p := range decl.Ports {
			ports[p.Name] = p.Buffer
		}
		return ports
	}
	for _, name := range defaults {
		ports[name] = 0
	}
	return ports
}
