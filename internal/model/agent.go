package model

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/modelkit/internal/dataset"
	"github.com/san-kum/modelkit/internal/report"
)

const (
	DefaultAgentSteps = 10
	DefaultAgentSeed  = 1
)

// AgentConfig seeds a fresh AgentBased model.
type AgentConfig struct {
	InitialStates []float64
	Steps         int
	Seed          int64
	Observers     []StepObserver
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		InitialStates: []float64{1.0, 2.0, 3.0},
		Steps:         DefaultAgentSteps,
		Seed:          DefaultAgentSeed,
	}
}

type Agent struct {
	State float64
}

func NewAgent(initial float64) *Agent {
	return &Agent{State: initial}
}

// Act perturbs the state by a uniform draw from [-0.5, 0.5).
func (a *Agent) Act(rng *rand.Rand) {
	a.State += rng.Float64() - 0.5
}

// StepObserver is notified after every completed step with the agent states
// in addition order. The slice is owned by the caller of OnStep.
type StepObserver interface {
	OnStep(step int, states []float64)
}

// AgentBased advances its agents Steps times, visiting them in the order they
// were added.
type AgentBased struct {
	Steps     int
	agents    []*Agent
	rng       *rand.Rand
	observers []StepObserver
}

func NewAgentBased(cfg AgentConfig) *AgentBased {
	m := &AgentBased{
		Steps:  cfg.Steps,
		agents: make([]*Agent, 0, len(cfg.InitialStates)),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, s := range cfg.InitialStates {
		m.AddAgent(NewAgent(s))
	}
	for _, o := range cfg.Observers {
		m.AddObserver(o)
	}
	return m
}

// NewAgentBasedWithSource uses rng in place of a seeded source.
func NewAgentBasedWithSource(steps int, rng *rand.Rand) *AgentBased {
	return &AgentBased{Steps: steps, rng: rng}
}

func (m *AgentBased) AddAgent(a *Agent)          { m.agents = append(m.agents, a) }
func (m *AgentBased) AddObserver(o StepObserver) { m.observers = append(m.observers, o) }

func (m *AgentBased) Kind() Kind        { return KindAgentBased }
func (m *AgentBased) UsesDataset() bool { return false }

// ApplyScriptOutputs is a no-op: agents have no script output slots.
func (m *AgentBased) ApplyScriptOutputs(map[string][]float64) {}

func (m *AgentBased) Bind(*dataset.Table) error {
	return fmt.Errorf("%w: %s does not read datasets", ErrUnsupportedForModelKind, m.Kind())
}

func (m *AgentBased) Run() error {
	for step := 0; step < m.Steps; step++ {
		for _, a := range m.agents {
			a.Act(m.rng)
		}
		if len(m.observers) > 0 {
			states := m.Results()
			for _, o := range m.observers {
				o.OnStep(step, states)
			}
		}
	}
	return nil
}

// Results returns the agent states in addition order.
func (m *AgentBased) Results() []float64 {
	states := make([]float64, len(m.agents))
	for i, a := range m.agents {
		states[i] = a.State
	}
	return states
}

// ScriptInputs is empty: agent state is not exposed to scripts.
func (m *AgentBased) ScriptInputs() map[string]any {
	return map[string]any{}
}

func (m *AgentBased) Table() report.Table {
	return report.Table{Rows: []report.Row{{Label: "Agent States", Values: m.Results()}}}
}
