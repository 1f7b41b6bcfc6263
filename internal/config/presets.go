package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"circle": {
		Wall:    WallConfig{Wavelength: 2 * math.Pi, Amplitude: 0, Wavefronts: 1},
		Sampler: SamplerConfig{FlowSpeed: 1.0, Variance: 0.1},
		Run:     RunConfig{Duration: 30.0, Runs: 50},
		Solver:  SolverConfig{Method: "newton", Tolerance: DefaultTolerance},
	},
	"ripple": {
		Wall:    WallConfig{Wavelength: 1.0, Amplitude: 0.02, Wavefronts: 6},
		Sampler: SamplerConfig{FlowSpeed: 1.0, Variance: 0.1},
		Run:     RunConfig{Duration: 50.0, Runs: 100},
		Solver:  SolverConfig{Method: "newton", Tolerance: DefaultTolerance},
	},
	"corrugated": {
		Wall:    WallConfig{Wavelength: 1.0, Amplitude: 0.05, Wavefronts: 8},
		Sampler: SamplerConfig{FlowSpeed: 1.0, Variance: 0.1},
		Run:     RunConfig{Duration: 50.0, Runs: 100},
		Solver:  SolverConfig{Method: "newton", Tolerance: DefaultTolerance},
	},
	"scatter": {
		Wall:    WallConfig{Wavelength: 0.8, Amplitude: 0.12, Wavefronts: 12},
		Sampler: SamplerConfig{FlowSpeed: 0, Variance: 0.5},
		Run:     RunConfig{Duration: 80.0, Runs: 200},
		Solver:  SolverConfig{Method: "newton", Tolerance: DefaultTolerance},
	},
	"drift": {
		Wall:    WallConfig{Wavelength: 1.0, Amplitude: 0.03, Wavefronts: 8},
		Sampler: SamplerConfig{FlowSpeed: 2.0, Variance: 0.01},
		Run:     RunConfig{Duration: 50.0, Runs: 100},
		Solver:  SolverConfig{Method: "newton", Tolerance: DefaultTolerance},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
