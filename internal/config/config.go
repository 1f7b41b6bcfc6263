package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWavelength = 1.0
	DefaultAmplitude  = 0.05
	DefaultWavefronts = 8
	DefaultDuration   = 50.0
	DefaultFlowSpeed  = 1.0
	DefaultVariance   = 0.1
	DefaultRuns       = 100
	DefaultSolver     = "newton"
	DefaultTolerance  = 1e-6
)

type Config struct {
	Wall    WallConfig    `yaml:"wall" json:"wall"`
	Sampler SamplerConfig `yaml:"sampler" json:"sampler"`
	Run     RunConfig     `yaml:"run" json:"run"`
	Solver  SolverConfig  `yaml:"solver" json:"solver"`
}

type WallConfig struct {
	Wavelength float64 `yaml:"wavelength" json:"wavelength"`
	Amplitude  float64 `yaml:"amplitude" json:"amplitude"`
	Wavefronts int     `yaml:"wavefronts" json:"wavefronts"`
}

// SamplerConfig drives initial-state generation. The pointer fields pin
// individual state components; nil leaves the component to the sampler.
type SamplerConfig struct {
	FlowSpeed float64  `yaml:"flow_speed" json:"flow_speed"`
	Variance  float64  `yaml:"variance" json:"variance"`
	X         *float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Z         *float64 `yaml:"z,omitempty" json:"z,omitempty"`
	VX        *float64 `yaml:"vx,omitempty" json:"vx,omitempty"`
	VZ        *float64 `yaml:"vz,omitempty" json:"vz,omitempty"`
}

type RunConfig struct {
	Duration float64 `yaml:"duration" json:"duration"`
	Runs     int     `yaml:"runs" json:"runs"`
	Seed     int64   `yaml:"seed" json:"seed"`
	Workers  int     `yaml:"workers" json:"workers"`
}

type SolverConfig struct {
	Method    string  `yaml:"method" json:"method"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

func DefaultConfig() *Config {
	return &Config{
		Wall: WallConfig{
			Wavelength: DefaultWavelength,
			Amplitude:  DefaultAmplitude,
			Wavefronts: DefaultWavefronts,
		},
		Sampler: SamplerConfig{
			FlowSpeed: DefaultFlowSpeed,
			Variance:  DefaultVariance,
		},
		Run: RunConfig{
			Duration: DefaultDuration,
			Runs:     DefaultRuns,
		},
		Solver: SolverConfig{
			Method:    DefaultSolver,
			Tolerance: DefaultTolerance,
		},
	}
}

// Load reads a YAML config, layered over the defaults so partial files
// only override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
