// Package planner expands a pipeline configuration into an ordered plan of
// fully resolved tasks.
package planner

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/pkg/model"
)

// Plan expands cfg into an ordered task plan.
//
// With an empty override the scheduler range start..end is expanded
// inclusively in increments of step, one task per value, in ascending
// order. A non-empty override short-circuits expansion to a single task
// whose placeholder value is the override.
//
// All static validation happens here, before any task could run: range
// bounds, diagnostic names, output format, chunk sizes, and output-path
// uniqueness. Any violation is a CONFIG_ERROR naming the offending field.
func Plan(cfg *config.Config, override string) (*model.Plan, error) {
	if err := validate(cfg, override); err != nil {
		return nil, err
	}

	var values []string
	if override != "" {
		values = []string{override}
	} else {
		s := cfg.Scheduler
		for v := s.Start; v <= s.End; v += s.Step {
			values = append(values, strconv.Itoa(v))
		}
	}

	plan := &model.Plan{Tasks: make([]model.Task, 0, len(values))}
	for i, v := range values {
		task, err := buildTask(cfg, i, v)
		if err != nil {
			return nil, err
		}
		plan.Tasks = append(plan.Tasks, task)
	}
	return plan, nil
}

func buildTask(cfg *config.Config, index int, value string) (model.Task, error) {
	domain, err := Resolve(cfg.Inputs.DomainPath, value)
	if err != nil {
		return model.Task{}, err
	}

	grids := make([]model.GridInput, 0, len(cfg.Inputs.Grids))
	for _, g := range cfg.Inputs.Grids {
		pattern, err := Resolve(g.Path, value)
		if err != nil {
			return model.Task{}, err
		}
		grids = append(grids, model.GridInput{
			Name:      g.Name,
			Pattern:   pattern,
			Variables: g.Variables,
			Optional:  g.Optional,
		})
	}

	output, err := Resolve(OutputTemplate(cfg.Outputs), value)
	if err != nil {
		return model.Task{}, err
	}

	return model.Task{
		Index:       index,
		Value:       value,
		DomainPath:  domain,
		Grids:       grids,
		OutputPath:  output,
		Diagnostics: cfg.Diagnostics.Names,
	}, nil
}

// OutputTemplate joins the output directory and name template and appends
// the format extension. The result may still contain the placeholder marker.
func OutputTemplate(out *config.OutputsConfig) string {
	ext := ".nc"
	if out.Format == config.FormatZarr {
		ext = ".zarr"
	}
	return filepath.Join(out.Dir, out.Name) + ext
}

func validate(cfg *config.Config, override string) error {
	var errs []model.FieldError

	s := cfg.Scheduler
	if s.Step <= 0 {
		errs = append(errs, model.FieldError{
			Field:   "scheduler.step",
			Message: fmt.Sprintf("invalid range: step must be a positive integer, got %d", s.Step),
		})
	}
	if s.Start > s.End {
		errs = append(errs, model.FieldError{
			Field:   "scheduler.start",
			Message: fmt.Sprintf("invalid range: start %d exceeds end %d", s.Start, s.End),
		})
	}

	for i, name := range cfg.Diagnostics.Names {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, model.FieldError{
				Field:   fmt.Sprintf("diagnostics.names[%d]", i),
				Message: "diagnostic name is empty",
			})
		}
	}

	switch cfg.Outputs.Format {
	case config.FormatNetCDF, config.FormatZarr:
	default:
		errs = append(errs, model.FieldError{
			Field:   "outputs.format",
			Message: fmt.Sprintf("unsupported format %q; expected %s or %s", cfg.Outputs.Format, config.FormatNetCDF, config.FormatZarr),
		})
	}

	for dim, size := range cfg.Outputs.Chunks {
		if size <= 0 {
			errs = append(errs, model.FieldError{
				Field:   "outputs.chunks." + dim,
				Message: fmt.Sprintf("chunk size must be a positive integer, got %d", size),
			})
		}
	}

	// Distinct placeholder values must yield distinct output paths, so a
	// multi-task plan requires the marker in the output name template.
	if override == "" && planSize(s) > 1 && !HasMarker(cfg.Outputs.Name) {
		errs = append(errs, model.FieldError{
			Field:   "outputs.output_name",
			Message: "must contain " + Marker + " when more than one task is planned",
		})
	}

	if len(errs) > 0 {
		return model.NewConfigError("invalid pipeline plan", errs...)
	}
	return nil
}

func planSize(s *config.SchedulerConfig) int {
	if s.Step <= 0 || s.Start > s.End {
		return 0
	}
	return (s.End-s.Start)/s.Step + 1
}
