// Package pipeline is the mode dispatcher: describe, run, or submit a
// configured diagnostics pipeline.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/pkg/analysis"
)

// Orchestrator owns one CLI invocation's collaborators. Each invocation is
// a fresh process; nothing is shared across invocations.
type Orchestrator struct {
	logger *slog.Logger

	// Library overrides the analysis backend. When nil, an External
	// library driving the configured diagnostics command is used.
	Library analysis.Library

	// Out receives human-readable program output (describe summaries, run
	// reports). Defaults to stdout; logs go to the logger instead.
	Out io.Writer
}

// New creates an Orchestrator.
func New(logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		logger: logger.With("component", "pipeline"),
		Out:    os.Stdout,
	}
}

func (o *Orchestrator) library(cfg *config.Config) analysis.Library {
	if o.Library != nil {
		return o.Library
	}
	return analysis.NewExternal(cfg.Diagnostics.Command, o.logger)
}

// summarize writes the validated plan outline: task count, expansion
// range, inputs, diagnostics, and output settings.
func (o *Orchestrator) summarize(cfg *config.Config, planSize int, override string) {
	s := cfg.Scheduler

	fmt.Fprintf(o.Out, "Pipeline: %s\n", s.JobName)
	if override != "" {
		fmt.Fprintf(o.Out, "Tasks: 1 (input pattern %s)\n", override)
	} else {
		fmt.Fprintf(o.Out, "Tasks: %d (input patterns %d..%d step %d, max %d concurrent)\n",
			planSize, s.Start, s.End, s.Step, s.MaxConcurrentJobs)
	}

	fmt.Fprintf(o.Out, "Inputs:\n")
	fmt.Fprintf(o.Out, "  domain: %s\n", cfg.Inputs.DomainPath)
	for _, g := range cfg.Inputs.Grids {
		vars := "all variables"
		if len(g.Variables) > 0 {
			vars = strings.Join(g.Variables, ", ")
		}
		opt := ""
		if g.Optional {
			opt = " (optional)"
		}
		fmt.Fprintf(o.Out, "  %s: %s [%s]%s\n", g.Name, g.Path, vars, opt)
	}

	fmt.Fprintf(o.Out, "Diagnostics: %s\n", strings.Join(cfg.Diagnostics.Names, ", "))

	fmt.Fprintf(o.Out, "Outputs: %s (%s)", cfg.Outputs.Dir, cfg.Outputs.Format)
	if len(cfg.Outputs.Chunks) > 0 {
		fmt.Fprintf(o.Out, ", %d chunked dims", len(cfg.Outputs.Chunks))
	}
	fmt.Fprintln(o.Out)
}
