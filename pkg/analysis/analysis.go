// Package analysis defines the boundary to the external ocean-model
// analysis library: open a multi-file dataset, compute named diagnostics,
// write the result dataset. nemoflow never inspects dataset contents; it
// only threads opaque handles between the three calls.
package analysis

import (
	"context"

	"github.com/me/nemoflow/pkg/model"
)

// Dataset is an opaque handle to an opened hierarchical dataset,
// meaningful only to the Library that issued it.
type Dataset string

// Result is an opaque handle to one computed diagnostic result.
type Result string

// DomainProps are model-domain property flags passed through to Open.
type DomainProps struct {
	IPerio   bool   `json:"iperio"`
	NFType   string `json:"nftype,omitempty"`
	ReadMask bool   `json:"read_mask"`
	CMORised bool   `json:"cmorised"`
}

// OpenSpec describes the inputs for one dataset open.
type OpenSpec struct {
	DomainPath string            `json:"domain_path"`
	Grids      []model.GridInput `json:"grids"`
	Props      DomainProps       `json:"props"`
}

// WriteSpec describes the destination for one result dataset.
type WriteSpec struct {
	Path       string         `json:"path"`
	Format     string         `json:"format"`
	Chunks     map[string]int `json:"chunks,omitempty"`
	DateFormat string         `json:"date_format,omitempty"`
}

// Library is the pluggable analysis backend.
type Library interface {
	// Open builds an in-memory dataset from the resolved input files.
	Open(ctx context.Context, spec OpenSpec) (Dataset, error)

	// Diagnose evaluates the named diagnostic against an opened dataset.
	Diagnose(ctx context.Context, ds Dataset, name string) (Result, error)

	// Write serializes the accumulated results to the destination.
	Write(ctx context.Context, results *ResultSet, spec WriteSpec) error
}

// ResultSet accumulates diagnostic results keyed by name, preserving
// insertion order.
type ResultSet struct {
	names   []string
	results map[string]Result
}

// NewResultSet creates an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{results: make(map[string]Result)}
}

// Add records a result under name. Re-adding a name overwrites its result
// but keeps its original position.
func (rs *ResultSet) Add(name string, r Result) {
	if _, ok := rs.results[name]; !ok {
		rs.names = append(rs.names, name)
	}
	rs.results[name] = r
}

// Names returns the diagnostic names in insertion order.
func (rs *ResultSet) Names() []string { return rs.names }

// Get returns the result recorded under name.
func (rs *ResultSet) Get(name string) (Result, bool) {
	r, ok := rs.results[name]
	return r, ok
}

// Len returns the number of recorded results.
func (rs *ResultSet) Len() int { return len(rs.names) }
