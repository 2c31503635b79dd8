package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"econlab/internal/model"
)

// SQLiteRecorder persists runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	log *zap.Logger
	mu  sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc reads don't block recording.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solve_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			scenario     TEXT,
			kind         TEXT,
			sigma        REAL,
			beta         REAL,
			gross_return REAL,
			m1           REAL,
			income2      REAL,
			c1           REAL,
			saving       REAL,
			c2           REAL,
			utility      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solve_run ON solve_runs(run_id)`,

		`CREATE TABLE IF NOT EXISTS population_types (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			scenario    TEXT,
			type_name   TEXT,
			weight      REAL,
			sigma       REAL,
			beta        REAL,
			m1          REAL,
			c1          REAL,
			saving      REAL,
			saving_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pop_run ON population_types(run_id)`,

		`CREATE TABLE IF NOT EXISTS population_aggregates (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			scenario        TEXT,
			agg_saving      REAL,
			agg_endowment   REAL,
			agg_saving_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_popagg_run ON population_aggregates(run_id)`,

		`CREATE TABLE IF NOT EXISTS county_reports (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			county_fips    TEXT,
			county_name    TEXT,
			state          TEXT,
			total_mme      REAL,
			shipments      INTEGER,
			pharmacies     INTEGER,
			population     REAL,
			median_income  REAL,
			mme_per_capita REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_county_run ON county_reports(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSolve(run *SolveRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO solve_runs
		(run_id, timestamp, scenario, kind, sigma, beta, gross_return, m1, income2, c1, saving, c2, utility)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.RunID, time.Now().Unix(), run.Scenario, run.Kind,
		run.Sigma, run.Beta, run.GrossReturn, run.M1, run.Income2,
		run.Alloc.C1, run.Alloc.Saving, run.Alloc.C2, run.Alloc.Utility,
	)
	return err
}

func (r *SQLiteRecorder) RecordPopulation(run *PopulationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, tr := range run.Result.Types {
		if _, err := r.db.Exec(`INSERT INTO population_types
			(run_id, timestamp, scenario, type_name, weight, sigma, beta, m1, c1, saving, saving_rate)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			run.RunID, now, run.Scenario, tr.Type.Name, tr.Type.Weight,
			tr.Type.Pref.Sigma, tr.Type.Pref.Beta, tr.Type.Endow.M1,
			tr.Alloc.C1, tr.Alloc.Saving, tr.SavingRate,
		); err != nil {
			return err
		}
	}

	_, err := r.db.Exec(`INSERT INTO population_aggregates
		(run_id, timestamp, scenario, agg_saving, agg_endowment, agg_saving_rate)
		VALUES (?,?,?,?,?,?)`,
		run.RunID, now, run.Scenario,
		run.Result.AggSaving, run.Result.AggEndowment, run.Result.AggSavingRate,
	)
	return err
}

func (r *SQLiteRecorder) RecordCounties(runID string, rows []model.CountyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, row := range rows {
		if _, err := r.db.Exec(`INSERT INTO county_reports
			(run_id, timestamp, county_fips, county_name, state, total_mme, shipments, pharmacies, population, median_income, mme_per_capita)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			runID, now, row.CountyFIPS, row.CountyName, row.State,
			row.TotalMME, row.Shipments, row.Pharmacies,
			row.Population, row.MedianIncome, row.MMEPerCapita,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
