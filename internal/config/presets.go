package config

import "sort"

// Presets are named agent populations.
var Presets = map[string]AgentConfig{
	"default": {InitialStates: []float64{1.0, 2.0, 3.0}, Steps: 10, Seed: 1},
	"long":    {InitialStates: []float64{1.0, 2.0, 3.0}, Steps: 1000, Seed: 1},
	"crowd":   {InitialStates: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, Steps: 50, Seed: 7},
	"spread":  {InitialStates: []float64{-10, -5, 0, 5, 10}, Steps: 25, Seed: 11},
	"single":  {InitialStates: []float64{0}, Steps: 100, Seed: 3},
}

func GetPreset(name string) *AgentConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	p.InitialStates = append([]float64(nil), p.InitialStates...)
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
