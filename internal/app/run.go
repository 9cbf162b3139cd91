package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vk/gridsim/internal/ctxlog"
	"github.com/vk/gridsim/internal/series"
)

// Run builds and executes the loaded model, then logs a summary of every
// component's final-period variable values.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	logger.Debug("Building model instance from definition...")
	if err := a.model.Build(ctx); err != nil {
		return fmt.Errorf("failed to build model: %w", err)
	}
	inst := a.model.Instance()
	logger.Debug("Model instance built.", "components", len(inst.ComponentNames()))

	if err := a.model.Run(ctx); err != nil {
		return fmt.Errorf("model run failed: %w", err)
	}

	a.logResults(logger)
	logger.Debug("App.Run method finished.")
	return nil
}

// logResults reports each authored component's variables at the final
// period of its run range.
func (a *App) logResults(logger *slog.Logger) {
	for _, comp := range a.model.Instance().Components() {
		if comp.Synthesized {
			continue
		}
		for _, name := range comp.Vars.Names() {
			handle, err := comp.Vars.Handle(name)
			if err != nil {
				continue
			}
			switch h := handle.(type) {
			case *series.Vector[float64]:
				logger.Info("Result.", "component", comp.Name, "variable", name, "period", h.Last(), "value", h.GetUnchecked(h.Last()))
			case *series.Matrix[float64]:
				row := make([]float64, h.Cols())
				for j := range row {
					row[j] = h.GetUnchecked(h.Last(), j)
				}
				logger.Info("Result.", "component", comp.Name, "variable", name, "period", h.Last(), "values", row)
			}
		}
	}
}
