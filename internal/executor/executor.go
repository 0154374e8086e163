// Package executor runs single pipeline tasks against the analysis library.
package executor

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/pkg/analysis"
	"github.com/me/nemoflow/pkg/model"
)

// Executor executes one task at a time: open the task's datasets, compute
// each declared diagnostic in order, write the accumulated results. There
// is no parallelism inside a task and no retry.
type Executor struct {
	lib    analysis.Library
	props  analysis.DomainProps
	out    *config.OutputsConfig
	logger *slog.Logger
}

// New creates an Executor bound to an analysis library and the config's
// domain properties and output settings.
func New(lib analysis.Library, cfg *config.Config, logger *slog.Logger) *Executor {
	return &Executor{
		lib: lib,
		props: analysis.DomainProps{
			IPerio:   cfg.Inputs.IPerio,
			NFType:   cfg.Inputs.NFType,
			ReadMask: cfg.Inputs.ReadMask,
			CMORised: cfg.Inputs.CMORised,
		},
		out:    cfg.Outputs,
		logger: logger.With("component", "executor"),
	}
}

// Execute runs the three-step pipeline for a task and returns the output
// path on success. Failures carry the stage-typed error: INPUT_ERROR for
// unmatched required inputs, DIAGNOSTIC_ERROR naming the diagnostic, and
// OUTPUT_ERROR for an unwritable destination.
func (e *Executor) Execute(ctx context.Context, task model.Task) (string, error) {
	log := e.logger.With("task", task.Index, "value", task.Value)

	spec, err := e.checkInputs(task, log)
	if err != nil {
		return "", err
	}

	ds, err := e.lib.Open(ctx, spec)
	if err != nil {
		return "", &model.PipelineError{Code: model.ErrInput, Message: "open datasets", Err: err}
	}
	log.Info("opened model datasets", "grids", len(spec.Grids))

	results := analysis.NewResultSet()
	for _, name := range task.Diagnostics {
		r, err := e.lib.Diagnose(ctx, ds, name)
		if err != nil {
			return "", model.NewDiagnosticError(name, err)
		}
		results.Add(name, r)
		log.Info("computed diagnostic", "diagnostic", name)
	}

	writeSpec := analysis.WriteSpec{
		Path:       task.OutputPath,
		Format:     e.out.Format,
		Chunks:     e.out.Chunks,
		DateFormat: e.out.DateFormat,
	}
	if err := e.lib.Write(ctx, results, writeSpec); err != nil {
		return "", model.NewOutputError(task.OutputPath, err)
	}
	log.Info("wrote diagnostics", "path", task.OutputPath, "format", e.out.Format)

	return task.OutputPath, nil
}

// checkInputs globs every input pattern before touching the analysis
// library. A required pattern matching zero files fails the task; an
// optional grid is dropped from the open spec with a warning.
func (e *Executor) checkInputs(task model.Task, log *slog.Logger) (analysis.OpenSpec, error) {
	spec := analysis.OpenSpec{DomainPath: task.DomainPath, Props: e.props}

	if ok, err := matches(task.DomainPath); err != nil || !ok {
		return spec, model.NewInputError(task.DomainPath)
	}

	for _, g := range task.Grids {
		ok, err := matches(g.Pattern)
		if err == nil && ok {
			spec.Grids = append(spec.Grids, g)
			continue
		}
		if g.Optional {
			log.Warn("optional grid matched no files, skipping", "grid", g.Name, "pattern", g.Pattern)
			continue
		}
		return spec, model.NewInputError(g.Pattern)
	}

	return spec, nil
}

func matches(pattern string) (bool, error) {
	hits, err := filepath.Glob(pattern)
	if err != nil {
		return false, err
	}
	return len(hits) > 0, nil
}
