package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/modelkit/internal/model"
)

const (
	DefaultModel = string(model.KindEconomicA)
	DefaultSteps = model.DefaultAgentSteps
	DefaultSeed  = model.DefaultAgentSeed
)

type Config struct {
	Model   string      `yaml:"model"`
	Data    string      `yaml:"data"`
	Script  string      `yaml:"script"`
	Verbose bool        `yaml:"verbose"`
	Agents  AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	InitialStates []float64 `yaml:"initial_states"`
	Steps         int       `yaml:"steps"`
	Seed          int64     `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Agents: AgentConfig{
			InitialStates: []float64{1.0, 2.0, 3.0},
			Steps:         DefaultSteps,
			Seed:          DefaultSeed,
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

// AgentModelConfig converts the agent section for model construction.
func (c *Config) AgentModelConfig() model.AgentConfig {
	return model.AgentConfig{
		InitialStates: append([]float64(nil), c.Agents.InitialStates...),
		Steps:         c.Agents.Steps,
		Seed:          c.Agents.Seed,
	}
}
