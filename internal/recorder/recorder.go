package recorder

import "econlab/internal/model"

// SolveRun holds one solved single-agent scenario for persistence.
type SolveRun struct {
	RunID       string
	Scenario    string
	Kind        string // "deterministic", "stochastic", or "log"
	Sigma       float64
	Beta        float64
	GrossReturn float64
	M1          float64
	Income2     float64 // expected income in the stochastic case
	Alloc       model.Allocation
}

// PopulationRun holds a solved heterogeneous population.
type PopulationRun struct {
	RunID    string
	Scenario string
	Result   *model.PopulationResult
}

// Recorder persists solved runs for later analysis.
type Recorder interface {
	RecordSolve(run *SolveRun) error
	RecordPopulation(run *PopulationRun) error
	RecordCounties(runID string, rows []model.CountyReport) error
	Close() error
}
