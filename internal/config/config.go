package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/epipeak/internal/montecarlo"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParam = errors.New("config: unknown parameter")

type Config struct {
	Name       string         `yaml:"name"`
	Iterations int            `yaml:"iterations"`
	Workers    int            `yaml:"workers"`
	Seed       uint64         `yaml:"seed"`
	Epidemic   EpidemicConfig `yaml:"epidemic"`
	R0         R0Config       `yaml:"r0"`
	Control    ControlConfig  `yaml:"control"`
}

type EpidemicConfig struct {
	Days              int     `yaml:"days"`
	Population        float64 `yaml:"population"`
	InitialInfected   float64 `yaml:"initial_infected"`
	InfectionDuration float64 `yaml:"infection_duration"`
	Clamp             bool    `yaml:"clamp"`
}

type R0Config struct {
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
}

type ControlConfig struct {
	Effectiveness float64 `yaml:"effectiveness"`
}

// DefaultConfig returns the compiled-in scenario. A zero Seed means the
// sampler is seeded from system entropy.
func DefaultConfig() *Config {
	p := montecarlo.DefaultParams()
	return FromParams("default", p)
}

func FromParams(name string, p montecarlo.Params) *Config {
	return &Config{
		Name:       name,
		Iterations: p.Iterations,
		Workers:    1,
		Epidemic: EpidemicConfig{
			Days:              p.Days,
			Population:        p.Population,
			InitialInfected:   p.InitialInfected,
			InfectionDuration: p.InfectionDuration,
			Clamp:             p.Clamp,
		},
		R0: R0Config{
			Mean: p.R0Mean,
			Std:  p.R0Std,
		},
		Control: ControlConfig{
			Effectiveness: p.ControlEffectiveness,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Params() montecarlo.Params {
	return montecarlo.Params{
		Days:                 c.Epidemic.Days,
		Iterations:           c.Iterations,
		Population:           c.Epidemic.Population,
		InitialInfected:      c.Epidemic.InitialInfected,
		InfectionDuration:    c.Epidemic.InfectionDuration,
		R0Mean:               c.R0.Mean,
		R0Std:                c.R0.Std,
		ControlEffectiveness: c.Control.Effectiveness,
		Clamp:                c.Epidemic.Clamp,
	}
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return c.Params().Validate()
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// GetParams exposes the numeric parameters by name, for sweeps.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"days":                  float64(c.Epidemic.Days),
		"iterations":            float64(c.Iterations),
		"population":            c.Epidemic.Population,
		"initial_infected":      c.Epidemic.InitialInfected,
		"infection_duration":    c.Epidemic.InfectionDuration,
		"r0_mean":               c.R0.Mean,
		"r0_std":                c.R0.Std,
		"control_effectiveness": c.Control.Effectiveness,
	}
}

func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "days":
		c.Epidemic.Days = int(value)
	case "iterations":
		c.Iterations = int(value)
	case "population":
		c.Epidemic.Population = value
	case "initial_infected":
		c.Epidemic.InitialInfected = value
	case "infection_duration":
		c.Epidemic.InfectionDuration = value
	case "r0_mean":
		c.R0.Mean = value
	case "r0_std":
		c.R0.Std = value
	case "control_effectiveness":
		c.Control.Effectiveness = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}
