// Package scheduler re-runs the configured scenario and the county report
// on a cron schedule, recording every run. Used by the watch command to
// keep the results database current as scenario or data files change.
package scheduler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"econlab/internal/config"
	"econlab/internal/dataset"
	"econlab/internal/population"
	"econlab/internal/recorder"
	"econlab/internal/solver"
)

// Scheduler manages the periodic refresh task.
type Scheduler struct {
	Cron     *cron.Cron
	Log      *zap.Logger
	Cfg      *config.Config
	Recorder recorder.Recorder
}

// New creates a Scheduler. Cron expressions include a seconds field.
func New(log *zap.Logger, cfg *config.Config, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Log:      log,
		Cfg:      cfg,
		Recorder: rec,
	}
}

// Register adds the refresh task under the configured cron expression.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(s.Cfg.Watch.Cron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.String("cron", s.Cfg.Watch.Cron))
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	runID := uuid.NewString()
	s.Log.Info("refresh run starting", zap.String("run_id", runID))

	if err := s.refreshScenario(runID); err != nil {
		s.Log.Error("scenario refresh failed", zap.String("run_id", runID), zap.Error(err))
	}
	if err := s.refreshReport(runID); err != nil {
		s.Log.Error("county report refresh failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func (s *Scheduler) refreshScenario(runID string) error {
	sc, err := config.LoadScenario(s.Cfg.Watch.Scenario)
	if err != nil {
		return err
	}

	if len(sc.AgentTypes) > 0 {
		res, err := population.Solve(sc.AgentTypes)
		if err != nil {
			return err
		}
		s.Log.Info("population solved",
			zap.String("scenario", sc.Name),
			zap.Int("types", len(res.Types)),
			zap.Float64("agg_saving_rate", res.AggSavingRate))
		return s.Recorder.RecordPopulation(&recorder.PopulationRun{
			RunID:    runID,
			Scenario: sc.Name,
			Result:   res,
		})
	}

	run := &recorder.SolveRun{
		RunID:       runID,
		Scenario:    sc.Name,
		Sigma:       sc.Preferences.Sigma,
		Beta:        sc.Preferences.Beta,
		GrossReturn: sc.Endowment.GrossReturn,
		M1:          sc.Endowment.M1,
	}
	if sc.Income != nil {
		run.Kind = "stochastic"
		run.Income2 = sc.Income.Mean()
		run.Alloc, err = solver.SolveStochastic(sc.Preferences, sc.Endowment, *sc.Income)
	} else {
		run.Kind = "deterministic"
		run.Income2 = sc.Endowment.Income2
		run.Alloc, err = solver.SolveDeterministic(sc.Preferences, sc.Endowment)
	}
	if err != nil {
		return err
	}
	s.Log.Info("scenario solved",
		zap.String("scenario", sc.Name),
		zap.String("kind", run.Kind),
		zap.Float64("c1", run.Alloc.C1),
		zap.Float64("saving", run.Alloc.Saving))
	return s.Recorder.RecordSolve(run)
}

func (s *Scheduler) refreshReport(runID string) error {
	pipe := dataset.New(s.Log, s.Cfg.Data.States, s.Cfg.Data.Years)
	rows, err := pipe.Run(s.Cfg)
	if err != nil {
		return err
	}
	s.Log.Info("county report built", zap.Int("counties", len(rows)))
	return s.Recorder.RecordCounties(runID, rows)
}
