package pipeline

import (
	"context"
	"fmt"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/internal/executor"
	"github.com/me/nemoflow/internal/planner"
)

// TaskResult is one task's outcome in a run report.
type TaskResult struct {
	Index      int
	Value      string
	OutputPath string
	Err        error
}

// Report aggregates the outcomes of one run-mode invocation.
type Report struct {
	Results []TaskResult
}

// Failures returns the results of failed tasks, in plan order.
func (r *Report) Failures() []TaskResult {
	var failed []TaskResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every task succeeded.
func (r *Report) OK() bool { return len(r.Failures()) == 0 }

// Run plans the pipeline and executes every task sequentially in plan
// order. One task's failure never aborts its siblings: each outcome is
// recorded and the full set reported at the end. The returned error is
// non-nil only for planning failures; task failures live in the report.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Config, override string) (*Report, error) {
	plan, err := planner.Plan(cfg, override)
	if err != nil {
		return nil, err
	}

	ex := executor.New(o.library(cfg), cfg, o.logger)
	o.logger.Info("running pipeline", "tasks", plan.Size())

	report := &Report{Results: make([]TaskResult, 0, plan.Size())}
	for _, task := range plan.Tasks {
		out, err := ex.Execute(ctx, task)
		if err != nil {
			o.logger.Error("task failed", "task", task.Index, "value", task.Value, "error", err)
		}
		report.Results = append(report.Results, TaskResult{
			Index:      task.Index,
			Value:      task.Value,
			OutputPath: out,
			Err:        err,
		})
	}

	o.printReport(report)
	return report, nil
}

func (o *Orchestrator) printReport(report *Report) {
	failures := report.Failures()
	fmt.Fprintf(o.Out, "Completed %d/%d tasks\n", len(report.Results)-len(failures), len(report.Results))
	for _, f := range failures {
		fmt.Fprintf(o.Out, "  task %d (%s): %v\n", f.Index, f.Value, f.Err)
	}
}
