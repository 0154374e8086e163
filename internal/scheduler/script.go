// Package scheduler renders SLURM job-array submission scripts and drives
// the sbatch submission command.
package scheduler

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/me/nemoflow/internal/config"
)

// scriptTemplate is the job-array script body. The script is O(1) in plan
// size: it embeds a single parameterized invocation and lets SLURM supply
// each instance's index. The concrete placeholder value is derived from
// the index in shell, then resolved against the path templates by the
// re-invoked `nemoflow run`.
const scriptTemplate = `#!/bin/bash
#SBATCH --job-name={{.JobName}}
#SBATCH --time={{.Time}}
#SBATCH --partition={{.Partition}}
#SBATCH --ntasks={{.NTasks}}
#SBATCH --mem={{.Mem}}
#SBATCH --output={{.LogDir}}/%A_%a.out
#SBATCH --array=0-{{.ArrayEnd}}%{{.Concurrency}}

# -- Input pattern for this array instance -- #
{{if .Override}}task_ip={{.Override}}
{{else}}task_ip=$(( {{.Start}} + SLURM_ARRAY_TASK_ID * {{.Step}} ))
{{end}}echo "---- nemoflow array task ${task_ip} ----"

# -- Activate analysis environment -- #
{{.VenvCmd}}

# -- Run pipeline for this instance -- #
nemoflow run --config {{.ConfigPath}} --input-pattern ${task_ip} --log {{.LogDir}}/{{.LogPrefix}}_${task_ip}.log

echo "---- nemoflow array task ${task_ip} complete ----"
`

var tmpl = template.Must(template.New("job-array").Parse(scriptTemplate))

// Params describe one script rendering.
type Params struct {
	// ConfigPath is the pipeline config file the spawned instances reload.
	ConfigPath string
	// PlanSize is the number of tasks in the plan; the array spans
	// 0..PlanSize-1.
	PlanSize int
	// Override, when non-empty, collapses the array to a single element
	// carrying exactly this placeholder value.
	Override string
}

type scriptData struct {
	JobName, Time, Partition, Mem string
	NTasks                        int
	LogDir, LogPrefix             string
	ArrayEnd, Concurrency         int
	Start, Step                   int
	Override                      string
	VenvCmd                       string
	ConfigPath                    string
}

// Render produces the submission script text. Rendering is pure and
// deterministic: identical config and params always yield byte-identical
// output.
func Render(cfg *config.Config, p Params) (string, error) {
	size := p.PlanSize
	if p.Override != "" {
		size = 1
	}
	if size < 1 {
		return "", fmt.Errorf("render job script: plan size %d", size)
	}

	s := cfg.Scheduler
	data := scriptData{
		JobName:     s.JobName,
		Time:        s.Time,
		Partition:   s.Partition,
		Mem:         s.Mem,
		NTasks:      s.NTasks,
		LogDir:      s.LogDir,
		LogPrefix:   s.LogPrefix,
		ArrayEnd:    size - 1,
		Concurrency: min(s.MaxConcurrentJobs, size),
		Start:       s.Start,
		Step:        s.Step,
		Override:    p.Override,
		VenvCmd:     s.VenvCmd,
		ConfigPath:  p.ConfigPath,
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render job script: %w", err)
	}
	return b.String(), nil
}

// ScriptPath returns the path the submission script is written to.
func ScriptPath(s *config.SchedulerConfig) string {
	return filepath.Join(s.JobDir, s.LogPrefix+"_nemoflow.slurm")
}
