// Package runtime owns source node instances and drives their lifecycle:
// it constructs every declared source, runs each production loop as its own
// task, drains emitted records to a consumer, and finalizes every instance
// exactly once, honoring the cancellation grace period.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/flow"
	"github.com/vk/flowgridgo/internal/output"
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/internal/source"
)

// DefaultGracePeriod bounds how long a cancelled node may keep running
// before the runtime gives up on it.
const DefaultGracePeriod = 5 * time.Second

// Consumer receives every record a node emits, per-port in emission order.
type Consumer func(node string, rec output.Record)

// Options tune a Runtime instance.
type Options struct {
	// GracePeriod overrides DefaultGracePeriod when positive. A flow file's
	// settings block takes precedence over both.
	GracePeriod time.Duration
	// Consumer handles delivered records. Nil discards them.
	Consumer Consumer
	// Clock substitutes the node clock in tests. Nil means time.Now.
	Clock func() time.Time
}

// Runtime hosts the source instances declared by one flow model.
type Runtime struct {
	reg   *registry.Registry
	model *flow.Model
	opts  Options
}

// New builds a Runtime over the given registry and flow model.
func New(reg *registry.Registry, model *flow.Model, opts Options) *Runtime {
	if model.GracePeriod > 0 {
		opts.GracePeriod = model.GracePeriod
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.Consumer == nil {
		opts.Consumer = func(string, output.Record) {}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Runtime{reg: reg, model: model, opts: opts}
}

// Run constructs every declared source, runs them concurrently until all
// complete or ctx is cancelled, and finalizes each instance. A construction
// failure aborts the whole instantiation before any node runs. A production
// failure cancels the remaining nodes but never skips their finalize call.
func (rt *Runtime) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	instances, err := rt.construct(ctx)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		logger.Warn("Flow declares no sources, nothing to run.")
		return nil
	}

	var drains sync.WaitGroup
	for _, inst := range instances {
		rt.startDrains(&drains, inst)
	}

	g, runCtx := errgroup.WithContext(ctx)
	runErrs := make([]error, len(instances))
	finalErrs := make([]error, len(instances))
	for i, inst := range instances {
		g.Go(func() error {
			runErrs[i] = rt.runInstance(runCtx, inst)
			// Ports close only after Run is over, so every record the node
			// issued is already in flight to the drain.
			inst.outs.Close()
			finalErrs[i] = rt.finalize(ctx, inst)
			return runErrs[i]
		})
	}

	// The group error duplicates the first entry of runErrs; the joined
	// slices carry the full picture, including non-fatal teardown faults.
	_ = g.Wait()
	drains.Wait()

	logger.Debug("All source instances finished.", "count", len(instances))
	return errors.Join(errors.Join(runErrs...), errors.Join(finalErrs...))
}

// runInstance drives one node's Run call and applies the grace period when
// cancellation arrives before the node returns.
func (rt *Runtime) runInstance(ctx context.Context, inst *instance) error {
	logger := ctxlog.FromContext(ctx).With("node", inst.name)

	if err := inst.lc.Transition("run", source.Running); err != nil {
		return err
	}
	logger.Debug("Node entering production loop.")

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &source.ProductionError{Err: fmt.Errorf("panic in run: %v", r)}
			}
		}()
		done <- inst.src.Run(ctx)
	}()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		select {
		case runErr = <-done:
		case <-time.After(rt.opts.GracePeriod):
			logger.Error("Node ignored cancellation for the whole grace period, abandoning its task.",
				"grace_period", rt.opts.GracePeriod)
			runErr = &source.ProductionError{
				Err: fmt.Errorf("cancellation not observed within %s", rt.opts.GracePeriod),
			}
		}
	}

	// A node that surfaces the cancellation it observed has still terminated
	// cleanly; only faults of its own count against it.
	if runErr != nil && ctx.Err() != nil &&
		(errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded)) {
		runErr = nil
	}

	if runErr != nil {
		logger.Error("Node production failed.", "error", runErr)
		if err := inst.lc.Transition("run", source.Failed); err != nil {
			logger.Error("State bookkeeping failed after production error.", "error", err)
		}
		return fmt.Errorf("node %q: %w", inst.name, runErr)
	}
	logger.Debug("Node production finished.")
	return nil
}

// finalize releases one instance's resources. Failures here are reported
// but never block the rest of the graph's teardown.
func (rt *Runtime) finalize(ctx context.Context, inst *instance) error {
	logger := ctxlog.FromContext(ctx).With("node", inst.name)

	if err := inst.lc.Transition("finalize", source.Finalized); err != nil {
		logger.Error("Refusing out-of-order finalize call.", "error", err)
		return err
	}
	if err := inst.src.Finalize(); err != nil {
		ferr := &source.FinalizationError{Err: fmt.Errorf("node %q: %w", inst.name, err)}
		logger.Error("Node teardown failed.", "error", ferr)
		return ferr
	}
	logger.Debug("Node finalized.")
	return nil
}

// startDrains launches one drain goroutine per port, preserving per-port
// emission order end to end.
func (rt *Runtime) startDrains(wg *sync.WaitGroup, inst *instance) {
	for _, name := range inst.outs.Names() {
		out, err := inst.outs.Lookup(name)
		if err != nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case rec := <-out.Receive():
					rt.opts.Consumer(inst.name, rec)
				case <-out.Done():
					// Flush whatever the node buffered before its ports
					// closed, then stop.
					for {
						select {
						case rec := <-out.Receive():
							rt.opts.Consumer(inst.name, rec)
						default:
							return
						}
					}
				}
			}
		}()
	}
}
