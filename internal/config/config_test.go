package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "EconomicModelA" {
		t.Errorf("expected model EconomicModelA, got %s", cfg.Model)
	}
	if cfg.Agents.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", cfg.Agents.Steps)
	}
	if len(cfg.Agents.InitialStates) != 3 {
		t.Errorf("expected 3 agents, got %d", len(cfg.Agents.InitialStates))
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	src := "model: EconomicModelB\ndata: data2.txt\nagents:\n  steps: 3\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Model != "EconomicModelB" || cfg.Data != "data2.txt" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Agents.Steps != 3 {
		t.Errorf("expected steps 3, got %d", cfg.Agents.Steps)
	}
	if len(cfg.Agents.InitialStates) != 3 || cfg.Agents.Seed != DefaultSeed {
		t.Errorf("unset fields lost their defaults: %+v", cfg.Agents)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Script = "growth.star"
	cfg.Agents.Seed = 99

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Script != "growth.star" || got.Agents.Seed != 99 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("agents: [unclosed"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestAgentModelConfig(t *testing.T) {
	cfg := DefaultConfig()
	mc := cfg.AgentModelConfig()
	mc.InitialStates[0] = 42
	if cfg.Agents.InitialStates[0] == 42 {
		t.Error("AgentModelConfig shares storage with the config")
	}
	if mc.Steps != cfg.Agents.Steps || mc.Seed != cfg.Agents.Seed {
		t.Errorf("unexpected model config %+v", mc)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("crowd")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(p.InitialStates) != 10 {
		t.Errorf("expected 10 agents, got %d", len(p.InitialStates))
	}

	p.InitialStates[0] = 5
	if Presets["crowd"].InitialStates[0] != 0 {
		t.Error("GetPreset returned shared storage")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}
