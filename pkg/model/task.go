package model

// GridInput is one resolved model-grid input: a file glob plus the
// variables to load from the files it matches.
type GridInput struct {
	// Name identifies the grid (gridT, gridU, gridV, gridW, icemod).
	Name string `json:"name"`
	// Pattern is the file glob with the placeholder already substituted.
	Pattern string `json:"pattern"`
	// Variables to load; empty means all variables.
	Variables []string `json:"variables,omitempty"`
	// Optional grids produce a warning instead of an error when the
	// pattern matches no files.
	Optional bool `json:"optional,omitempty"`
}

// Task is one fully resolved unit of work. Tasks are created once by the
// planner and never mutated afterwards.
type Task struct {
	// Index is the 0-based, stable position of the task in its plan.
	// It doubles as the scheduler array index in submit mode.
	Index int `json:"index"`
	// Value is the concrete placeholder value this task was expanded with.
	Value string `json:"value"`
	// DomainPath is the resolved path of the domain configuration file.
	DomainPath string `json:"domain_path"`
	// Grids are the resolved grid input patterns, in config order.
	Grids []GridInput `json:"grids"`
	// OutputPath is the resolved destination for the task's result dataset.
	OutputPath string `json:"output_path"`
	// Diagnostics are the diagnostic names to compute, shared across the
	// plan and applied in order.
	Diagnostics []string `json:"diagnostics"`
}

// Plan is the ordered task sequence for one pipeline invocation.
// Ordering is ascending task index, which equals ascending expansion order.
type Plan struct {
	Tasks []Task `json:"tasks"`
}

// Size returns the number of tasks in the plan.
func (p *Plan) Size() int { return len(p.Tasks) }
