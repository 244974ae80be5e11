package config

import (
	"sort"

	"github.com/san-kum/epipeak/internal/montecarlo"
)

var Presets = map[string]*Config{
	"spain": withParams("spain", func(*montecarlo.Params) {}),
	"uncontrolled": withParams("uncontrolled", func(p *montecarlo.Params) {
		p.ControlEffectiveness = 0
	}),
	"lockdown": withParams("lockdown", func(p *montecarlo.Params) {
		p.ControlEffectiveness = 0.6
		p.Days = 180
	}),
	"uncertain": allCPUs(withParams("uncertain", func(p *montecarlo.Params) {
		p.R0Std = 0.6
		p.Iterations = 5000
	})),
	"small-town": withParams("small-town", func(p *montecarlo.Params) {
		p.Population = 20000
		p.InitialInfected = 5
		p.Days = 150
	}),
}

func withParams(name string, mutate func(*montecarlo.Params)) *Config {
	p := montecarlo.DefaultParams()
	mutate(&p)
	return FromParams(name, p)
}

func allCPUs(cfg *Config) *Config {
	cfg.Workers = 0
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
