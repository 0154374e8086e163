// Package config loads and validates the four-section pipeline
// configuration (scheduler, inputs, diagnostics, outputs).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/me/nemoflow/pkg/model"
	"gopkg.in/yaml.v3"
)

// Config is the parsed pipeline configuration. It is immutable after Load:
// nothing downstream writes to it.
//
// Sections are pointers so a missing section can be told apart from an
// empty one; Validate rejects any nil section.
type Config struct {
	Scheduler   *SchedulerConfig   `yaml:"scheduler" toml:"scheduler"`
	Inputs      *InputsConfig      `yaml:"inputs" toml:"inputs"`
	Diagnostics *DiagnosticsConfig `yaml:"diagnostics" toml:"diagnostics"`
	Outputs     *OutputsConfig     `yaml:"outputs" toml:"outputs"`
}

// SchedulerConfig holds batch-scheduler and range-expansion settings.
type SchedulerConfig struct {
	// Directories for generated job scripts and per-task logs.
	// Default to ./jobs and ./logs when unset.
	JobDir    string `yaml:"job_dir" toml:"job_dir"`
	LogDir    string `yaml:"log_dir" toml:"log_dir"`
	LogPrefix string `yaml:"log_prefix" toml:"log_prefix"`

	// SLURM batch directives.
	JobName   string `yaml:"job_name" toml:"job_name"`
	Time      string `yaml:"time" toml:"time"`
	Partition string `yaml:"partition" toml:"partition"`
	NTasks    int    `yaml:"ntasks" toml:"ntasks"`
	Mem       string `yaml:"mem" toml:"mem"`

	// Inclusive input-pattern expansion range.
	Start int `yaml:"start" toml:"start"`
	End   int `yaml:"end" toml:"end"`
	Step  int `yaml:"step" toml:"step"`

	// MaxConcurrentJobs caps simultaneously running array elements.
	MaxConcurrentJobs int `yaml:"max_concurrent_jobs" toml:"max_concurrent_jobs"`

	// VenvCmd is an opaque environment-activation command emitted into the
	// job script verbatim. Never interpreted or executed by nemoflow itself.
	VenvCmd string `yaml:"venv_cmd" toml:"venv_cmd"`
}

// GridConfig is one model-grid input declaration.
type GridConfig struct {
	Name      string   `yaml:"name" toml:"name"`
	Path      string   `yaml:"path" toml:"path"`
	Variables []string `yaml:"vars" toml:"vars"`
	Optional  bool     `yaml:"optional" toml:"optional"`
}

// InputsConfig holds model input paths and domain properties.
type InputsConfig struct {
	DomainPath string       `yaml:"domain_path" toml:"domain_path"`
	Grids      []GridConfig `yaml:"grids" toml:"grids"`

	// Domain properties, passed through to the analysis library.
	IPerio   bool   `yaml:"iperio" toml:"iperio"`
	NFType   string `yaml:"nftype" toml:"nftype"`
	ReadMask bool   `yaml:"read_mask" toml:"read_mask"`
	CMORised bool   `yaml:"cmorised" toml:"cmorised"`
}

// DiagnosticsConfig names the diagnostics to compute per task, in order.
type DiagnosticsConfig struct {
	Names []string `yaml:"names" toml:"names"`

	// Command is the external analysis tool invoked to open datasets,
	// compute diagnostics, and write results. Defaults to "nemo-analysis".
	Command string `yaml:"command" toml:"command"`
}

// OutputsConfig holds the result destination and serialization settings.
type OutputsConfig struct {
	Dir        string         `yaml:"output_dir" toml:"output_dir"`
	Name       string         `yaml:"output_name" toml:"output_name"`
	Format     string         `yaml:"format" toml:"format"`
	Chunks     map[string]int `yaml:"chunks" toml:"chunks"`
	DateFormat string         `yaml:"date_format" toml:"date_format"`
}

// Supported output formats.
const (
	FormatNetCDF = "netcdf"
	FormatZarr   = "zarr"
)

// DefaultCommand is the analysis tool used when diagnostics.command is unset.
const DefaultCommand = "nemo-analysis"

// Load reads, decodes, and validates a config file. The format is chosen
// by extension: .toml is TOML, everything else is parsed as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewConfigError(fmt.Sprintf("read config %s", path), model.FieldError{Message: err.Error()})
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, model.NewConfigError(fmt.Sprintf("parse config %s", path), model.FieldError{Message: err.Error()})
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Scheduler != nil {
		if c.Scheduler.JobDir == "" {
			c.Scheduler.JobDir = "jobs"
		}
		if c.Scheduler.LogDir == "" {
			c.Scheduler.LogDir = "logs"
		}
	}
	if c.Diagnostics != nil && c.Diagnostics.Command == "" {
		c.Diagnostics.Command = DefaultCommand
	}
}

// Validate checks that every section is present and every mandatory key is
// populated. Semantic checks on values (range bounds, format enum, chunk
// sizes) belong to the planner; this pass only establishes structure.
func (c *Config) Validate() error {
	var errs []model.FieldError

	if c.Scheduler == nil {
		errs = append(errs, model.FieldError{Field: "scheduler", Message: "section is required"})
	} else {
		errs = append(errs, requireString("scheduler.log_prefix", c.Scheduler.LogPrefix)...)
		errs = append(errs, requireString("scheduler.job_name", c.Scheduler.JobName)...)
		errs = append(errs, requireString("scheduler.time", c.Scheduler.Time)...)
		errs = append(errs, requireString("scheduler.partition", c.Scheduler.Partition)...)
		errs = append(errs, requireString("scheduler.mem", c.Scheduler.Mem)...)
		if c.Scheduler.NTasks <= 0 {
			errs = append(errs, model.FieldError{Field: "scheduler.ntasks", Message: "must be a positive integer"})
		}
		if c.Scheduler.MaxConcurrentJobs <= 0 {
			errs = append(errs, model.FieldError{Field: "scheduler.max_concurrent_jobs", Message: "must be a positive integer"})
		}
	}

	if c.Inputs == nil {
		errs = append(errs, model.FieldError{Field: "inputs", Message: "section is required"})
	} else {
		errs = append(errs, requireString("inputs.domain_path", c.Inputs.DomainPath)...)
		if nf := c.Inputs.NFType; nf != "" && nf != "T" && nf != "F" {
			errs = append(errs, model.FieldError{
				Field:   "inputs.nftype",
				Message: fmt.Sprintf("invalid north-fold type %q; expected T or F", nf),
			})
		}
		for i, g := range c.Inputs.Grids {
			if g.Name == "" {
				errs = append(errs, model.FieldError{
					Field:   fmt.Sprintf("inputs.grids[%d].name", i),
					Message: "grid name is required",
				})
			}
			if g.Path == "" {
				errs = append(errs, model.FieldError{
					Field:   fmt.Sprintf("inputs.grids[%d].path", i),
					Message: "grid path is required",
				})
			}
		}
	}

	if c.Diagnostics == nil {
		errs = append(errs, model.FieldError{Field: "diagnostics", Message: "section is required"})
	} else if len(c.Diagnostics.Names) == 0 {
		errs = append(errs, model.FieldError{Field: "diagnostics.names", Message: "at least one diagnostic is required"})
	}

	if c.Outputs == nil {
		errs = append(errs, model.FieldError{Field: "outputs", Message: "section is required"})
	} else {
		errs = append(errs, requireString("outputs.output_dir", c.Outputs.Dir)...)
		errs = append(errs, requireString("outputs.output_name", c.Outputs.Name)...)
		errs = append(errs, requireString("outputs.format", c.Outputs.Format)...)
		if df := c.Outputs.DateFormat; df != "" && df != "Y" && df != "M" && df != "D" {
			errs = append(errs, model.FieldError{
				Field:   "outputs.date_format",
				Message: fmt.Sprintf("invalid date format %q; expected Y, M, or D", df),
			})
		}
	}

	if len(errs) > 0 {
		return model.NewConfigError("invalid pipeline configuration", errs...)
	}
	return nil
}

func requireString(field, value string) []model.FieldError {
	if strings.TrimSpace(value) == "" {
		return []model.FieldError{{Field: field, Message: "is required"}}
	}
	return nil
}
