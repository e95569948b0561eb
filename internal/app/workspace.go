package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/chrissnell/reservoirops/internal/curve"
	"github.com/chrissnell/reservoirops/internal/dataset"
	"github.com/chrissnell/reservoirops/internal/reservoir"
	"github.com/chrissnell/reservoirops/internal/simulate"
	"github.com/chrissnell/reservoirops/internal/solver"
	"github.com/chrissnell/reservoirops/pkg/config"
)

// Workspace is everything loaded from disk for one run.
type Workspace struct {
	Model     *reservoir.Model
	Solver    *solver.Solver
	Simulator *simulate.Simulator
	Inflow    *dataset.InflowSet
}

// Constants converts the reservoir section of the configuration.
func Constants(cfg *config.ConfigData) reservoir.Constants {
	r := cfg.Reservoir
	return reservoir.Constants{
		PowerCoefficient:    r.PowerCoefficient,
		FloodCeiling:        r.FloodCeiling,
		NormalCeiling:       r.NormalCeiling,
		MinOperatingLevel:   r.MinOperatingLevel,
		MinHead:             r.MinHead,
		MaxHead:             r.MaxHead,
		InitialFlowGuess:    r.InitialFlowGuess,
		HeadLossCoefficient: r.HeadLossCoefficient,
		VolumeUnit:          r.VolumeUnit,
		FloodSeasonStart:    time.Month(r.FloodSeasonStart),
		FloodSeasonEnd:      time.Month(r.FloodSeasonEnd),
	}
}

// SolverParams converts the solver section of the configuration.
func SolverParams(cfg *config.ConfigData) solver.Params {
	return solver.Params{
		Tolerance:     cfg.Solver.Tolerance,
		MaxIterations: cfg.Solver.MaxIterations,
	}
}

// Load reads the calibration tables and the inflow series and builds the
// simulation stack on top of them.
func (a *App) Load() (*Workspace, error) {
	curves, err := a.loadCurves()
	if err != nil {
		return nil, err
	}

	model, err := reservoir.NewModel(Constants(a.cfg), curves)
	if err != nil {
		return nil, err
	}

	s, err := solver.New(model, SolverParams(a.cfg))
	if err != nil {
		return nil, err
	}

	sim, err := simulate.New(s, a.cfg.Simulation.TailDays, a.logger.Named("simulate"))
	if err != nil {
		return nil, err
	}

	start := time.Month(a.cfg.Simulation.HydrologicalYearStartMonth)
	inflow, err := dataset.LoadInflow(a.path(a.cfg.Data.Inflow), dataset.InflowFormat(a.cfg.Data.InflowFormat), start)
	if err != nil {
		return nil, err
	}
	for _, y := range inflow.Dropped {
		a.logger.Warnw("dropping incomplete hydrological year",
			"start_year", y.StartYear,
			"periods", y.Len())
	}
	if len(inflow.Years) == 0 {
		return nil, fmt.Errorf("no complete hydrological years in %s", a.cfg.Data.Inflow)
	}

	a.logger.Infow("workspace loaded",
		"years", len(inflow.Years),
		"dropped", len(inflow.Dropped),
		"capacity_curve", model.HasCapacityCurve())

	return &Workspace{Model: model, Solver: s, Simulator: sim, Inflow: inflow}, nil
}

func (a *App) loadCurves() (reservoir.Curves, error) {
	var curves reservoir.Curves
	var err error

	if curves.Storage, err = dataset.LoadCurve(a.path(a.cfg.Data.StorageCurve), dataset.StorageTable); err != nil {
		return curves, err
	}
	if curves.Tailwater, err = dataset.LoadCurve(a.path(a.cfg.Data.TailwaterCurve), dataset.TailwaterTable); err != nil {
		return curves, err
	}
	if a.cfg.Data.CapacityCurve != "" {
		var capacity *curve.Curve
		if capacity, err = dataset.LoadCurve(a.path(a.cfg.Data.CapacityCurve), dataset.CapacityTable); err != nil {
			return curves, err
		}
		curves.Capacity = capacity
	}
	return curves, nil
}

func (a *App) path(name string) string {
	if a.cfg.Data.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.cfg.Data.Dir, name)
}
