// Package config loads the command-line tool's settings from YAML.
//
// Example file:
//
//	solver:
//	  mi: 100
//	  tau: 0.25
//	  tolerance: 1e-5
//	backend:
//	  name: auto
//	  parallel: true
//	dataset:
//	  root: ./data
//	  output: labels.csv
//	  version: 1
//	  count: 100
//	  workers: 4
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/fringelab/chambolle/internal/chambolle"
	"github.com/fringelab/chambolle/internal/fringe"
	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("config: invalid")

// Backend names.
const (
	BackendAuto   = "auto"
	BackendCPU    = "cpu"
	BackendWebGPU = "webgpu"
)

// Config is the full tool configuration.
type Config struct {
	Solver    Solver    `yaml:"solver"`
	Backend   Backend   `yaml:"backend"`
	Dataset   Dataset   `yaml:"dataset"`
	Generator Generator `yaml:"generator"`
}

// Solver mirrors chambolle.Config.
type Solver struct {
	Mi               float64 `yaml:"mi"`
	Tau              float64 `yaml:"tau"`
	Tolerance        float64 `yaml:"tolerance"`
	StagnationWindow int     `yaml:"stagnation_window"`
	MaxIterations    int     `yaml:"max_iterations"`
	DivergenceFactor float64 `yaml:"divergence_factor"`
}

// Backend selects the compute backend.
type Backend struct {
	// Name is auto, cpu or webgpu. Auto prefers WebGPU when an adapter is
	// available.
	Name     string `yaml:"name"`
	Parallel bool   `yaml:"parallel"`
	Workers  int    `yaml:"workers"`
}

// Dataset describes a labelling run.
type Dataset struct {
	Root string `yaml:"root"`
	// Output is the CSV log; relative paths resolve against the working
	// directory.
	Output string `yaml:"output"`
	// Version 1 stops on a fringe reference, version 0 on self-convergence.
	Version int `yaml:"version"`
	Count   int `yaml:"count"`
	Start   int `yaml:"start"`
	Workers int `yaml:"workers"`
}

// Generator mirrors fringe.Options.
type Generator struct {
	Size         int     `yaml:"size"`
	MinFrequency int     `yaml:"min_frequency"`
	MaxFrequency int     `yaml:"max_frequency"`
	MinAngle     float64 `yaml:"min_angle"`
	MaxAngle     float64 `yaml:"max_angle"`
	Amplitude    float64 `yaml:"amplitude"`
	Noise        float64 `yaml:"noise"`
	Seed         uint64  `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	s := chambolle.DefaultConfig()
	g := fringe.DefaultOptions()
	return Config{
		Solver: Solver{
			Mi:               s.Mi,
			Tau:              s.Tau,
			Tolerance:        s.Tolerance,
			StagnationWindow: s.StagnationWindow,
			MaxIterations:    s.MaxIterations,
			DivergenceFactor: s.DivergenceFactor,
		},
		Backend: Backend{
			Name:    BackendAuto,
			Workers: runtime.GOMAXPROCS(0),
		},
		Dataset: Dataset{
			Root:    ".",
			Output:  "labels.csv",
			Version: 1,
			Count:   1,
			Workers: 1,
		},
		Generator: Generator{
			Size:         g.Size,
			MinFrequency: g.MinFrequency,
			MaxFrequency: g.MaxFrequency,
			MinAngle:     g.MinAngle,
			MaxAngle:     g.MaxAngle,
			Amplitude:    g.Amplitude,
			Noise:        g.Noise,
			Seed:         g.Seed,
		},
	}
}

// Load reads path over the defaults and validates the result. Keys absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.SolverConfig().Validate(); err != nil {
		return fmt.Errorf("%w: solver: %w", ErrInvalid, err)
	}
	switch c.Backend.Name {
	case BackendAuto, BackendCPU, BackendWebGPU:
	default:
		return fmt.Errorf("%w: backend: unknown name %q", ErrInvalid, c.Backend.Name)
	}
	if c.Backend.Parallel && c.Backend.Workers < 1 {
		return fmt.Errorf("%w: backend: workers must be positive, got %d", ErrInvalid, c.Backend.Workers)
	}
	d := c.Dataset
	switch {
	case d.Version != 0 && d.Version != 1:
		return fmt.Errorf("%w: dataset: version must be 0 or 1, got %d", ErrInvalid, d.Version)
	case d.Count < 0 || d.Start < 0:
		return fmt.Errorf("%w: dataset: count and start must not be negative", ErrInvalid)
	case d.Workers < 1:
		return fmt.Errorf("%w: dataset: workers must be positive, got %d", ErrInvalid, d.Workers)
	}
	if err := c.GeneratorOptions().Validate(); err != nil {
		return fmt.Errorf("%w: generator: %w", ErrInvalid, err)
	}
	return nil
}

// SolverConfig converts the solver section.
func (c Config) SolverConfig() chambolle.Config {
	return chambolle.Config{
		Mi:               c.Solver.Mi,
		Tau:              c.Solver.Tau,
		Tolerance:        c.Solver.Tolerance,
		StagnationWindow: c.Solver.StagnationWindow,
		MaxIterations:    c.Solver.MaxIterations,
		DivergenceFactor: c.Solver.DivergenceFactor,
	}
}

// GeneratorOptions converts the generator section.
func (c Config) GeneratorOptions() fringe.Options {
	g := c.Generator
	return fringe.Options{
		Size:         g.Size,
		MinFrequency: g.MinFrequency,
		MaxFrequency: g.MaxFrequency,
		MinAngle:     g.MinAngle,
		MaxAngle:     g.MaxAngle,
		Amplitude:    g.Amplitude,
		Noise:        g.Noise,
		Seed:         g.Seed,
	}
}
