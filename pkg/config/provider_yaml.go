package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file. Keys missing
// from the file keep their Defaults() value. A relative data directory is
// resolved against the directory holding the file.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags, seeded with the defaults
	yamlConfig := yamlFromData(Defaults())
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, err
	}

	config := yamlConfig.toData()
	if config.Data.Dir != "" && !filepath.IsAbs(config.Data.Dir) {
		config.Data.Dir = filepath.Join(filepath.Dir(y.filename), config.Data.Dir)
	}

	y.config = config
	return config, nil
}

// IsReadOnly returns true since YAML files are treated as read-only
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags
type ConfigYAML struct {
	Reservoir  ReservoirYAML  `yaml:"reservoir"`
	Solver     SolverYAML     `yaml:"solver"`
	Simulation SimulationYAML `yaml:"simulation"`
	Data       DataYAML       `yaml:"data"`
	Output     OutputYAML     `yaml:"output"`
	Scenarios  []ScenarioYAML `yaml:"scenarios"`
}

type ReservoirYAML struct {
	PowerCoefficient    float64 `yaml:"power-coefficient"`
	FloodCeiling        float64 `yaml:"flood-ceiling"`
	NormalCeiling       float64 `yaml:"normal-ceiling"`
	MinOperatingLevel   float64 `yaml:"min-operating-level"`
	MinHead             float64 `yaml:"min-head"`
	MaxHead             float64 `yaml:"max-head"`
	InitialFlowGuess    float64 `yaml:"initial-flow-guess"`
	HeadLossCoefficient float64 `yaml:"head-loss-coefficient"`
	VolumeUnit          float64 `yaml:"volume-unit"`
	FloodSeason         struct {
		Start int `yaml:"start-month"`
		End   int `yaml:"end-month"`
	} `yaml:"flood-season"`
}

type SolverYAML struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max-iterations"`
}

type SimulationYAML struct {
	TailDays                   int      `yaml:"tail-days"`
	HydrologicalYearStartMonth int      `yaml:"hydrological-year-start-month"`
	Workers                    int      `yaml:"workers"`
	Modes                      []string `yaml:"modes,omitempty"`
}

type DataYAML struct {
	Dir            string `yaml:"dir,omitempty"`
	StorageCurve   string `yaml:"storage-curve"`
	TailwaterCurve string `yaml:"tailwater-curve"`
	CapacityCurve  string `yaml:"capacity-curve,omitempty"`
	Inflow         string `yaml:"inflow"`
	InflowFormat   string `yaml:"inflow-format,omitempty"`
}

type OutputYAML struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
}

type ScenarioYAML struct {
	Name         string  `yaml:"name"`
	TargetOutput float64 `yaml:"target-output"`
}

func yamlFromData(d *ConfigData) ConfigYAML {
	var c ConfigYAML

	c.Reservoir = ReservoirYAML{
		PowerCoefficient:    d.Reservoir.PowerCoefficient,
		FloodCeiling:        d.Reservoir.FloodCeiling,
		NormalCeiling:       d.Reservoir.NormalCeiling,
		MinOperatingLevel:   d.Reservoir.MinOperatingLevel,
		MinHead:             d.Reservoir.MinHead,
		MaxHead:             d.Reservoir.MaxHead,
		InitialFlowGuess:    d.Reservoir.InitialFlowGuess,
		HeadLossCoefficient: d.Reservoir.HeadLossCoefficient,
		VolumeUnit:          d.Reservoir.VolumeUnit,
	}
	c.Reservoir.FloodSeason.Start = d.Reservoir.FloodSeasonStart
	c.Reservoir.FloodSeason.End = d.Reservoir.FloodSeasonEnd

	c.Solver = SolverYAML(d.Solver)
	c.Simulation = SimulationYAML(d.Simulation)
	c.Data = DataYAML(d.Data)
	c.Output = OutputYAML(d.Output)

	for _, s := range d.Scenarios {
		c.Scenarios = append(c.Scenarios, ScenarioYAML(s))
	}
	return c
}

func (c ConfigYAML) toData() *ConfigData {
	config := &ConfigData{
		Reservoir: ReservoirData{
			PowerCoefficient:    c.Reservoir.PowerCoefficient,
			FloodCeiling:        c.Reservoir.FloodCeiling,
			NormalCeiling:       c.Reservoir.NormalCeiling,
			MinOperatingLevel:   c.Reservoir.MinOperatingLevel,
			MinHead:             c.Reservoir.MinHead,
			MaxHead:             c.Reservoir.MaxHead,
			InitialFlowGuess:    c.Reservoir.InitialFlowGuess,
			HeadLossCoefficient: c.Reservoir.HeadLossCoefficient,
			VolumeUnit:          c.Reservoir.VolumeUnit,
			FloodSeasonStart:    c.Reservoir.FloodSeason.Start,
			FloodSeasonEnd:      c.Reservoir.FloodSeason.End,
		},
		Solver:     SolverData(c.Solver),
		Simulation: SimulationData(c.Simulation),
		Data:       DataFiles(c.Data),
		Output:     OutputData(c.Output),
		Scenarios:  make([]ScenarioData, len(c.Scenarios)),
	}

	for i, s := range c.Scenarios {
		config.Scenarios[i] = ScenarioData(s)
	}
	return config
}
