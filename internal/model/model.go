package model

import (
	"fmt"
	"sort"

	"github.com/san-kum/modelkit/internal/dataset"
	"github.com/san-kum/modelkit/internal/report"
)

type Kind string

const (
	KindEconomicA  Kind = "EconomicModelA"
	KindEconomicB  Kind = "EconomicModelB"
	KindAgentBased Kind = "AgentBasedModel"
)

// Script output names read back onto a model after evaluation.
const (
	OutputGDPGrowth = "GDPGrowth"
	OutputZDEKS     = "ZDEKS"
)

// HorizonBinding is the script binding that carries the horizon length.
const HorizonBinding = "LL"

type Model interface {
	Kind() Kind

	// UsesDataset reports whether Bind is supported.
	UsesDataset() bool

	// Bind replaces the model's input arrays with the dataset's series aligned
	// to the LATA horizon. Nothing is modified when it fails.
	Bind(t *dataset.Table) error

	Run() error

	// Results returns the primary output series of the last run.
	Results() []float64

	// ScriptInputs returns copies of the state exposed to scripts.
	ScriptInputs() map[string]any

	// ApplyScriptOutputs stores recognised outputs; other names are ignored.
	ApplyScriptOutputs(out map[string][]float64)

	Table() report.Table
}

var aliases = map[string]Kind{
	"Model1":        KindEconomicA,
	"Model2":        KindEconomicB,
	"MultiAgentSim": KindAgentBased,
}

// ParseKind resolves a selection name, accepting the legacy Model1, Model2
// and MultiAgentSim names.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(name); k {
	case KindEconomicA, KindEconomicB, KindAgentBased:
		return k, nil
	}
	if k, ok := aliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModelKind, name)
}

type Registry struct {
	models map[Kind]func() Model
}

func NewRegistry(agents AgentConfig) *Registry {
	r := &Registry{models: make(map[Kind]func() Model)}

	r.models[KindEconomicA] = func() Model { return NewEconomicA() }
	r.models[KindEconomicB] = func() Model { return NewEconomicB() }
	r.models[KindAgentBased] = func() Model { return NewAgentBased(agents) }

	return r
}

// New constructs a fresh, empty model for the named kind.
func (r *Registry) New(name string) (Model, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	fn, ok := r.models[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModelKind, name)
	}
	return fn(), nil
}

func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.models))
	for k := range r.models {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// bindAligned reads the horizon and aligns every named series to it.
func bindAligned(t *dataset.Table, names []string) (map[string][]float64, int, error) {
	n, err := t.Horizon()
	if err != nil {
		return nil, 0, err
	}
	arrays := make(map[string][]float64, len(names))
	for _, name := range names {
		arrays[name] = t.Aligned(name, n)
	}
	return arrays, n, nil
}

// requireBound reports the first name whose array is nil.
func requireBound(kind Kind, arrays map[string][]float64, names []string) error {
	for _, name := range names {
		if arrays[name] == nil {
			return fmt.Errorf("%w: %s needs %s", ErrMissingInputData, kind, name)
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	if v == nil {
		return nil
	}
	c := make([]float64, len(v))
	copy(c, v)
	return c
}

// scriptArrays copies each named array into a binding set with the horizon.
func scriptArrays(ll int, arrays map[string][]float64, names []string) map[string]any {
	in := make(map[string]any, len(names)+1)
	in[HorizonBinding] = ll
	for _, name := range names {
		in[name] = clone(arrays[name])
	}
	return in
}

func appendRows(rows []report.Row, arrays map[string][]float64, names []string) []report.Row {
	for _, name := range names {
		if v := arrays[name]; v != nil {
			rows = append(rows, report.Row{Label: name, Values: clone(v)})
		}
	}
	return rows
}
