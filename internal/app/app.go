package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/reservoirops/internal/envelope"
	"github.com/chrissnell/reservoirops/internal/report"
	"github.com/chrissnell/reservoirops/internal/simulate"
	"github.com/chrissnell/reservoirops/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
	runID  string

	// Stdout receives the report when no output path is configured.
	Stdout io.Writer
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	runID := uuid.NewString()
	return &App{
		cfg:    cfg,
		logger: logger.With("run_id", runID),
		runID:  runID,
		Stdout: os.Stdout,
	}
}

// RunID identifies this run in logs and report metadata.
func (a *App) RunID() string {
	return a.runID
}

// Run simulates every scenario across every complete year, reduces the
// results into the configured envelopes and writes the report.
func (a *App) Run(ctx context.Context) (*report.Report, error) {
	ws, err := a.Load()
	if err != nil {
		return nil, err
	}

	runner, err := envelope.NewRunner(ws.Simulator, a.cfg.Simulation.Workers, a.logger)
	if err != nil {
		return nil, err
	}

	rep := report.New(a.runID, time.Now().UTC())
	for _, scenario := range a.cfg.Scenarios {
		start := time.Now()
		results, err := runner.Simulate(ctx, ws.Inflow.Years, scenario.TargetOutput)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		for _, m := range a.cfg.Simulation.Modes {
			mode := envelope.Mode(m)
			traj, err := envelope.Reduce(results, mode)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
			if err := rep.Add(report.Series{
				Scenario: scenario.Name,
				Target:   scenario.TargetOutput,
				Mode:     string(mode),
				Points:   traj,
			}); err != nil {
				return nil, err
			}

			s := envelope.Summarize(traj)
			a.logger.Infow("envelope computed",
				"scenario", scenario.Name,
				"mode", mode,
				"min", s.Min,
				"max", s.Max,
				"mean", s.Mean,
				"stddev", s.StdDev)
		}

		a.logger.Infow("scenario complete",
			"scenario", scenario.Name,
			"target", scenario.TargetOutput,
			"years", len(results),
			"elapsed", time.Since(start))
	}

	if err := a.writeReport(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// SimulateYear runs one year of one scenario and returns both passes
// alongside the combined trajectory.
func (a *App) SimulateYear(scenarioName string, year int) (*simulate.Result, error) {
	scenario, err := a.scenario(scenarioName)
	if err != nil {
		return nil, err
	}

	ws, err := a.Load()
	if err != nil {
		return nil, err
	}
	if year < 0 || year >= len(ws.Inflow.Years) {
		return nil, fmt.Errorf("year %d out of range, %d complete years loaded", year, len(ws.Inflow.Years))
	}

	return ws.Simulator.Simulate(ws.Inflow.Years[year], scenario.TargetOutput)
}

func (a *App) scenario(name string) (config.ScenarioData, error) {
	if name == "" && len(a.cfg.Scenarios) > 0 {
		return a.cfg.Scenarios[0], nil
	}
	for _, s := range a.cfg.Scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return config.ScenarioData{}, fmt.Errorf("no scenario named %q", name)
}

func (a *App) writeReport(rep *report.Report) error {
	format := report.Format(a.cfg.Output.Format)
	if a.cfg.Output.Path == "" {
		return report.Write(a.Stdout, rep, format)
	}

	if err := report.WriteFile(a.cfg.Output.Path, rep, format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.logger.Infow("report written", "path", a.cfg.Output.Path, "format", format, "columns", len(rep.Series))
	return nil
}
