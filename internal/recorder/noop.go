package recorder

import "econlab/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSolve(_ *SolveRun) error                         { return nil }
func (n *NoopRecorder) RecordPopulation(_ *PopulationRun) error               { return nil }
func (n *NoopRecorder) RecordCounties(_ string, _ []model.CountyReport) error { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
