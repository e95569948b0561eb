package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Reservoir  ReservoirData  `json:"reservoir" split_words:"true"`
	Solver     SolverData     `json:"solver" split_words:"true"`
	Simulation SimulationData `json:"simulation" split_words:"true"`
	Data       DataFiles      `json:"data" split_words:"true"`
	Output     OutputData     `json:"output" split_words:"true"`
	Scenarios  []ScenarioData `json:"scenarios" ignored:"true" validate:"required,min=1,dive"`
}

// ReservoirData holds the physical constants of the reservoir
type ReservoirData struct {
	PowerCoefficient    float64 `json:"power_coefficient" split_words:"true" validate:"gt=0"`
	FloodCeiling        float64 `json:"flood_ceiling" split_words:"true" validate:"gtefield=MinOperatingLevel"`
	NormalCeiling       float64 `json:"normal_ceiling" split_words:"true" validate:"gtefield=MinOperatingLevel"`
	MinOperatingLevel   float64 `json:"min_operating_level" split_words:"true"`
	MinHead             float64 `json:"min_head" split_words:"true" validate:"gte=0"`
	MaxHead             float64 `json:"max_head" split_words:"true" validate:"gtfield=MinHead"`
	InitialFlowGuess    float64 `json:"initial_flow_guess" split_words:"true" validate:"gt=0"`
	HeadLossCoefficient float64 `json:"head_loss_coefficient" split_words:"true" validate:"gte=0"`
	VolumeUnit          float64 `json:"volume_unit" split_words:"true" validate:"gt=0"`
	FloodSeasonStart    int     `json:"flood_season_start" split_words:"true" validate:"min=1,max=12"`
	FloodSeasonEnd      int     `json:"flood_season_end" split_words:"true" validate:"min=1,max=12"`
}

// SolverData holds the convergence settings of the flow solver
type SolverData struct {
	Tolerance     float64 `json:"tolerance" split_words:"true" validate:"gt=0"`
	MaxIterations int     `json:"max_iterations" split_words:"true" validate:"min=1"`
}

// SimulationData holds the settings of the level simulation and aggregation
type SimulationData struct {
	TailDays                   int      `json:"tail_days" split_words:"true" validate:"min=1"`
	HydrologicalYearStartMonth int      `json:"hydrological_year_start_month" split_words:"true" validate:"min=1,max=12"`
	Workers                    int      `json:"workers" split_words:"true" validate:"min=0"`
	Modes                      []string `json:"modes" split_words:"true" validate:"required,min=1,dive,oneof=upper lower mean"`
}

// DataFiles locates the calibration tables and the inflow series
type DataFiles struct {
	Dir            string `json:"dir" split_words:"true"`
	StorageCurve   string `json:"storage_curve" split_words:"true" validate:"required"`
	TailwaterCurve string `json:"tailwater_curve" split_words:"true" validate:"required"`
	CapacityCurve  string `json:"capacity_curve,omitempty" split_words:"true"`
	Inflow         string `json:"inflow" split_words:"true" validate:"required"`
	InflowFormat   string `json:"inflow_format" split_words:"true" validate:"oneof=monthly decadal designed"`
}

// OutputData controls where and how the envelope table is written
type OutputData struct {
	Path   string `json:"path,omitempty" split_words:"true"`
	Format string `json:"format" split_words:"true" validate:"oneof=csv json msgpack"`
}

// ScenarioData is one target power output to simulate
type ScenarioData struct {
	Name         string  `json:"name" validate:"required"`
	TargetOutput float64 `json:"target_output" validate:"gt=0"`
}

// Defaults returns the configuration of the reference reservoir with the
// conventional data file names.
func Defaults() *ConfigData {
	return &ConfigData{
		Reservoir: ReservoirData{
			PowerCoefficient:    8.6,
			FloodCeiling:        773.1,
			NormalCeiling:       780.0,
			MinOperatingLevel:   731.0,
			MinHead:             83.0,
			MaxHead:             143.0,
			InitialFlowGuess:    3012.0,
			HeadLossCoefficient: 2.08e-5,
			VolumeUnit:          1e8,
			FloodSeasonStart:    1,
			FloodSeasonEnd:      9,
		},
		Solver: SolverData{
			Tolerance:     1e-6,
			MaxIterations: 200,
		},
		Simulation: SimulationData{
			TailDays:                   11,
			HydrologicalYearStartMonth: 5,
			Workers:                    0,
			Modes:                      []string{"upper", "lower"},
		},
		Data: DataFiles{
			Dir:            "Data",
			StorageCurve:   "Z_V.txt",
			TailwaterCurve: "Q_Z.txt",
			CapacityCurve:  "N_MAX_LIMITS.txt",
			Inflow:         "HIST_FLOW.txt",
			InflowFormat:   "monthly",
		},
		Output: OutputData{
			Format: "csv",
		},
	}
}
