package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/internal/planner"
	"github.com/me/nemoflow/internal/scheduler"
	"github.com/me/nemoflow/pkg/model"
)

// Submit plans the pipeline (to size the array; nothing executes), writes
// the job-array script to the job directory, and unless noSubmit is set
// hands it to sbatch. A rejected or unavailable scheduler is a
// SUBMISSION_ERROR; the already-written script is preserved so the
// operator can submit it by hand.
func (o *Orchestrator) Submit(ctx context.Context, cfg *config.Config, configPath, override string, noSubmit bool) (string, error) {
	plan, err := planner.Plan(cfg, override)
	if err != nil {
		return "", err
	}

	s := cfg.Scheduler
	for _, dir := range []string{s.JobDir, s.LogDir, cfg.Outputs.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", model.NewSubmissionError("create directory "+dir, err)
		}
	}

	script, err := scheduler.Render(cfg, scheduler.Params{
		ConfigPath: configPath,
		PlanSize:   plan.Size(),
		Override:   override,
	})
	if err != nil {
		return "", model.NewSubmissionError("render job script", err)
	}

	path := scheduler.ScriptPath(s)
	if err := scheduler.WriteScript(path, script); err != nil {
		return path, err
	}
	o.logger.Info("wrote job script", "path", path, "tasks", plan.Size())

	if noSubmit {
		fmt.Fprintf(o.Out, "Job script written (not submitted): %s\n", path)
		return path, nil
	}

	ack, err := scheduler.Submit(ctx, path, o.logger)
	if err != nil {
		return path, err
	}
	o.logger.Info("submitted job script", "path", path)
	fmt.Fprintln(o.Out, ack)
	return path, nil
}
