package instance

import (
	"context"
	"fmt"

	"github.com/vk/gridsim/internal/ctxlog"
	"github.com/vk/gridsim/internal/timestep"
)

// Run drives every component in execution order across its resolved period
// range at the model's step duration. Execution is fully sequential:
// components run one after another, and each component runs all of its
// periods before the next component starts. A failure at component K
// leaves components 1..K-1 executed with their results intact and
// components K+1..N untouched.
func (mi *ModelInstance) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if len(mi.order) == 0 {
		return ErrEmptyModel
	}

	_, step, _ := mi.def.TimeRange()
	logger.Info("🚀 Starting model run.", "components", len(mi.order), "step", step)

	for i, name := range mi.order {
		comp := mi.comps[name]
		compLogger := logger.With("component", name, "position", i)
		compLogger.Debug("Component run starting.", "first", comp.First, "last", comp.Last)

		clock, err := timestep.NewClock(comp.First, step, comp.Last)
		if err != nil {
			return fmt.Errorf("component %q: invalid run range: %w", name, err)
		}

		for {
			ts := clock.Timestep()
			if err := comp.UpdateFn(ctx, comp.Params, comp.Vars, ts); err != nil {
				compLogger.Error("Component update failed.", "period", ts.Period(), "error", err)
				return fmt.Errorf("component %q failed at period %d: %w", name, ts.Period(), err)
			}
			if clock.IsFinal() {
				break
			}
			if err := clock.Advance(); err != nil {
				return fmt.Errorf("component %q: %w", name, err)
			}
		}
		compLogger.Debug("Component run finished.")
	}

	mi.ran = true
	logger.Info("🏁 Model run finished.")
	return nil
}
