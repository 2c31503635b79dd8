package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"econlab/internal/config"
	"econlab/internal/dataset"
	"econlab/internal/exchange"
	"econlab/internal/population"
	"econlab/internal/recorder"
	"econlab/internal/report"
	"econlab/internal/scheduler"
	"econlab/internal/solver"
)

var (
	// Global flags
	cfgPath      string
	scenarioPath string
	verbose      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "econlab",
	Short: "Two-period consumption-saving models and the county shipment study",
	Long: `econlab solves small two-period CRRA consumption-saving models
(deterministic, stochastic income, heterogeneous populations, and a
bequest-motive grid variant), a two-agent exchange economy, and builds
per-county aggregates of the opioid shipment data joined with census
demographics. Runs are recorded to SQLite for later analysis.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the scenario's baseline agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := config.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}

		run := &recorder.SolveRun{
			RunID:       uuid.NewString(),
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

		fmt.Print(report.FormatAllocation(sc.Name, run.Kind, sc.Preferences, sc.Endowment, run.Alloc))
		return withRecorder(func(rec recorder.Recorder) error {
			return rec.RecordSolve(run)
		})
	},
}

var populationCmd = &cobra.Command{
	Use:   "population",
	Short: "Solve every agent type in the scenario and aggregate",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := config.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		if len(sc.AgentTypes) == 0 {
			return fmt.Errorf("scenario %q defines no agent types", sc.Name)
		}

		res, err := population.Solve(sc.AgentTypes)
		if err != nil {
			return err
		}

		fmt.Print(report.FormatPopulation(sc.Name, res))
		return withRecorder(func(rec recorder.Recorder) error {
			return rec.RecordPopulation(&recorder.PopulationRun{
				RunID:    uuid.NewString(),
				Scenario: sc.Name,
				Result:   res,
			})
		})
	},
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Solve the bequest-motive model on cash-on-hand grids",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := config.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		params := defaultBequestParams()
		if sc.Bequest != nil {
			params = *sc.Bequest
		}

		period1, period2, err := solver.SolveBequestGrid(params)
		if err != nil {
			return err
		}

		fmt.Print(report.FormatGrid("period 1 policy", period1, 11))
		fmt.Print(report.FormatGrid("period 2 policy", period2, 11))
		return nil
	},
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Find the clearing price of the two-agent exchange economy",
	RunE: func(cmd *cobra.Command, args []string) error {
		e := exchange.Economy{Alpha: alphaA, Beta: betaB, W1A: w1A, W2A: w2A}
		p1, err := e.FindClearingPrice(0.1, 10)
		if err != nil {
			return err
		}
		fmt.Print(report.FormatExchange(e, p1))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the per-county shipment report from the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pipe := dataset.New(logger, cfg.Data.States, cfg.Data.Years)
		rows, err := pipe.Run(cfg)
		if err != nil {
			return err
		}

		fmt.Print(report.FormatCounties(rows, cfg.Report.TopCounties))
		return withRecorder(func(rec recorder.Recorder) error {
			return rec.RecordCounties(uuid.NewString(), rows)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the configured scenario and report on a cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rec, err := openRecorder(cfg)
		if err != nil {
			return err
		}
		defer rec.Close()

		sched := scheduler.New(logger, cfg, rec)
		if err := sched.Register(); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if runOnStart {
			sched.RunNow()
		}

		logger.Info("watching; press Ctrl+C to stop")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		return nil
	},
}

var (
	alphaA, betaB, w1A, w2A float64
	runOnStart              bool
)

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// openRecorder opens SQLite when configured, falling back to a noop
// recorder so solving still works without a database.
func openRecorder(cfg *config.Config) (recorder.Recorder, error) {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder(), nil
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.Warn("sqlite recorder unavailable, using noop", zap.Error(err))
		return recorder.NewNoopRecorder(), nil
	}
	return rec, nil
}

func withRecorder(record func(recorder.Recorder) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec, err := openRecorder(cfg)
	if err != nil {
		return err
	}
	defer rec.Close()
	return record(rec)
}

func defaultBequestParams() solver.BequestParams {
	return solver.BequestParams{
		Sigma:       2,
		Beta:        0.95,
		GrossReturn: 1.04,
		Gamma:       0.5,
		Kappa:       0.5,
		YLow:        0.7,
		YHigh:       1.3,
		PLow:        0.5,
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "scenarios/baseline.yaml", "path to scenario file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	exchangeCmd.Flags().Float64Var(&alphaA, "alpha", 1.0/3.0, "agent A's share on good 1")
	exchangeCmd.Flags().Float64Var(&betaB, "beta", 2.0/3.0, "agent B's share on good 1")
	exchangeCmd.Flags().Float64Var(&w1A, "w1a", 0.8, "agent A's endowment of good 1")
	exchangeCmd.Flags().Float64Var(&w2A, "w2a", 0.3, "agent A's endowment of good 2")

	watchCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "execute one refresh immediately")

	rootCmd.AddCommand(solveCmd, populationCmd, gridCmd, exchangeCmd, reportCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
