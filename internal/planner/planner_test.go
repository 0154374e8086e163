package planner

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/me/nemoflow/internal/config"
	"github.com/me/nemoflow/pkg/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: &config.SchedulerConfig{
			JobDir:            "jobs",
			LogDir:            "logs",
			LogPrefix:         "osnap",
			JobName:           "nemo-osnap",
			Time:              "04:00:00",
			Partition:         "standard",
			NTasks:            1,
			Mem:               "64G",
			Start:             1990,
			End:               1999,
			Step:              1,
			MaxConcurrentJobs: 2,
		},
		Inputs: &config.InputsConfig{
			DomainPath: "/data/eORCA025/domain_cfg.nc",
			Grids: []config.GridConfig{
				{Name: "gridT", Path: "/data/eORCA025/{ip}/gridT_*.nc", Variables: []string{"thetao_con", "so_abs"}},
				{Name: "gridU", Path: "/data/eORCA025/{ip}/gridU_*.nc", Variables: []string{"uo"}},
			},
			NFType: "F",
		},
		Diagnostics: &config.DiagnosticsConfig{
			Names:   []string{"extract_osnap_section"},
			Command: "nemo-analysis",
		},
		Outputs: &config.OutputsConfig{
			Dir:        "/results",
			Name:       "osnap_{ip}",
			Format:     config.FormatNetCDF,
			Chunks:     map[string]int{"time_counter": 12},
			DateFormat: "M",
		},
	}
}

func TestPlan_RangeExpansion(t *testing.T) {
	plan, err := Plan(testConfig(), "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Size() != 10 {
		t.Fatalf("expected 10 tasks, got %d", plan.Size())
	}
	for i, task := range plan.Tasks {
		if task.Index != i {
			t.Errorf("task %d has index %d", i, task.Index)
		}
		if want := strconv.Itoa(1990 + i); task.Value != want {
			t.Errorf("task %d value = %q, want %q", i, task.Value, want)
		}
	}
}

func TestPlan_StepGreaterThanOne(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.Step = 3
	plan, err := Plan(cfg, "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []string{"1990", "1993", "1996", "1999"}
	if plan.Size() != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), plan.Size())
	}
	for i, task := range plan.Tasks {
		if task.Value != want[i] {
			t.Errorf("task %d value = %q, want %q", i, task.Value, want[i])
		}
	}
}

func TestPlan_SingleValueRange(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.Start = 1995
	cfg.Scheduler.End = 1995
	cfg.Outputs.Name = "osnap" // no marker needed for a single task
	plan, err := Plan(cfg, "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Size() != 1 || plan.Tasks[0].Value != "1995" {
		t.Errorf("unexpected plan: %+v", plan.Tasks)
	}
}

func TestPlan_OverrideShortCircuits(t *testing.T) {
	plan, err := Plan(testConfig(), "1997")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Size() != 1 {
		t.Fatalf("expected 1 task with override, got %d", plan.Size())
	}
	task := plan.Tasks[0]
	if task.Value != "1997" || task.Index != 0 {
		t.Errorf("unexpected task: %+v", task)
	}
	if task.OutputPath != "/results/osnap_1997.nc" {
		t.Errorf("output path = %q", task.OutputPath)
	}
}

func TestPlan_ResolvedPaths(t *testing.T) {
	plan, err := Plan(testConfig(), "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	task := plan.Tasks[3]
	if task.DomainPath != "/data/eORCA025/domain_cfg.nc" {
		t.Errorf("domain path should be untouched, got %q", task.DomainPath)
	}
	if want := "/data/eORCA025/1993/gridT_*.nc"; task.Grids[0].Pattern != want {
		t.Errorf("gridT pattern = %q, want %q", task.Grids[0].Pattern, want)
	}
	if want := "/results/osnap_1993.nc"; task.OutputPath != want {
		t.Errorf("output path = %q, want %q", task.OutputPath, want)
	}
	if len(task.Diagnostics) != 1 || task.Diagnostics[0] != "extract_osnap_section" {
		t.Errorf("diagnostics = %v", task.Diagnostics)
	}
}

func TestPlan_OutputPathsDistinct(t *testing.T) {
	plan, err := Plan(testConfig(), "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	seen := make(map[string]int)
	for _, task := range plan.Tasks {
		if prev, dup := seen[task.OutputPath]; dup {
			t.Errorf("tasks %d and %d share output path %q", prev, task.Index, task.OutputPath)
		}
		seen[task.OutputPath] = task.Index
	}
}

func TestPlan_ZarrExtension(t *testing.T) {
	cfg := testConfig()
	cfg.Outputs.Format = config.FormatZarr
	plan, err := Plan(cfg, "1990")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !strings.HasSuffix(plan.Tasks[0].OutputPath, "osnap_1990.zarr") {
		t.Errorf("output path = %q", plan.Tasks[0].OutputPath)
	}
}

func TestPlan_InvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*config.Config)
		field string
	}{
		{"zero step", func(c *config.Config) { c.Scheduler.Step = 0 }, "scheduler.step"},
		{"negative step", func(c *config.Config) { c.Scheduler.Step = -1 }, "scheduler.step"},
		{"start after end", func(c *config.Config) { c.Scheduler.Start = 2000 }, "scheduler.start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mut(cfg)
			_, err := Plan(cfg, "")
			assertConfigError(t, err, tt.field)
		})
	}
}

func TestPlan_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*config.Config)
		field string
	}{
		{"unsupported format", func(c *config.Config) { c.Outputs.Format = "hdf5" }, "outputs.format"},
		{"zero chunk", func(c *config.Config) { c.Outputs.Chunks["x"] = 0 }, "outputs.chunks.x"},
		{"negative chunk", func(c *config.Config) { c.Outputs.Chunks["y"] = -4 }, "outputs.chunks.y"},
		{"empty diagnostic", func(c *config.Config) { c.Diagnostics.Names = []string{"  "} }, "diagnostics.names[0]"},
		{"ambiguous output name", func(c *config.Config) { c.Outputs.Name = "osnap" }, "outputs.output_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mut(cfg)
			_, err := Plan(cfg, "")
			assertConfigError(t, err, tt.field)
		})
	}
}

func TestPlan_OverrideAllowsStaticOutputName(t *testing.T) {
	// An override plans a single task, so the output name needs no marker.
	cfg := testConfig()
	cfg.Outputs.Name = "osnap"
	if _, err := Plan(cfg, "1993"); err != nil {
		t.Fatalf("Plan with override: %v", err)
	}
}

func assertConfigError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *model.PipelineError
	if !errors.As(err, &pe) || pe.Code != model.ErrConfig {
		t.Fatalf("expected CONFIG_ERROR, got %v", err)
	}
	for _, d := range pe.Details {
		if d.Field == field {
			return
		}
	}
	t.Errorf("expected detail for field %q, got %v", field, pe.Details)
}
