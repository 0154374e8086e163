package pipeline

import (
	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/internal/planner"
)

// Describe validates the config by planning it, then prints the plan
// summary. It performs no filesystem work beyond the config read that
// already happened: no globbing, no directory creation, no task execution.
func (o *Orchestrator) Describe(cfg *config.Config, override string) error {
	plan, err := planner.Plan(cfg, override)
	if err != nil {
		return err
	}
	o.logger.Info("configuration valid", "tasks", plan.Size())
	o.summarize(cfg, plan.Size(), override)
	return nil
}
