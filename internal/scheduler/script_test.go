package scheduler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/me/nemoflow/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: &config.SchedulerConfig{
			JobDir:            "/work/jobs",
			LogDir:            "/work/logs",
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
			VenvCmd:           "source /env/bin/activate",
		},
		Outputs: &config.OutputsConfig{Dir: "/results"},
	}
}

func testParams() Params {
	return Params{ConfigPath: "/work/pipeline.yaml", PlanSize: 10}
}

func TestRender_Directives(t *testing.T) {
	script, err := Render(testConfig(), testParams())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"#!/bin/bash\n",
		"#SBATCH --job-name=nemo-osnap\n",
		"#SBATCH --time=04:00:00\n",
		"#SBATCH --partition=standard\n",
		"#SBATCH --ntasks=1\n",
		"#SBATCH --mem=64G\n",
		"#SBATCH --output=/work/logs/%A_%a.out\n",
		"#SBATCH --array=0-9%2\n",
		"task_ip=$(( 1990 + SLURM_ARRAY_TASK_ID * 1 ))\n",
		"source /env/bin/activate\n",
		"nemoflow run --config /work/pipeline.yaml --input-pattern ${task_ip} --log /work/logs/osnap_${task_ip}.log\n",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render(testConfig(), testParams())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(testConfig(), testParams())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if a != b {
		t.Error("identical inputs produced different script text")
	}
}

func TestRender_ConcurrencyCappedByPlanSize(t *testing.T) {
	tests := []struct {
		maxConcurrent, planSize, want int
	}{
		{2, 10, 2},
		{20, 10, 10},
		{10, 10, 10},
		{1, 3, 1},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.Scheduler.MaxConcurrentJobs = tt.maxConcurrent
		p := testParams()
		p.PlanSize = tt.planSize

		script, err := Render(cfg, p)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		directive := fmt.Sprintf("#SBATCH --array=0-%d%%%d\n", tt.planSize-1, tt.want)
		if !strings.Contains(script, directive) {
			t.Errorf("max=%d size=%d: missing %q in:\n%s", tt.maxConcurrent, tt.planSize, directive, script)
		}
	}
}

func TestRender_SingleInvocationLine(t *testing.T) {
	// The script is O(1) in plan size: one parameterized command, not one
	// command per task.
	script, err := Render(testConfig(), testParams())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := strings.Count(script, "nemoflow run"); n != 1 {
		t.Errorf("expected exactly one invocation line, found %d", n)
	}
}

func TestRender_OverrideCollapsesArray(t *testing.T) {
	p := testParams()
	p.Override = "1997"
	script, err := Render(testConfig(), p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(script, "#SBATCH --array=0-0%1\n") {
		t.Errorf("expected single-element array, got:\n%s", script)
	}
	if !strings.Contains(script, "task_ip=1997\n") {
		t.Errorf("expected direct override assignment, got:\n%s", script)
	}
	if strings.Contains(script, "SLURM_ARRAY_TASK_ID *") {
		t.Errorf("override script should not derive from the array index:\n%s", script)
	}
}

func TestRender_EmptyPlan(t *testing.T) {
	p := testParams()
	p.PlanSize = 0
	if _, err := Render(testConfig(), p); err == nil {
		t.Fatal("expected error for empty plan")
	}
}

func TestScriptPath(t *testing.T) {
	got := ScriptPath(testConfig().Scheduler)
	if want := "/work/jobs/osnap_nemoflow.slurm"; got != want {
		t.Errorf("ScriptPath = %q, want %q", got, want)
	}
}
