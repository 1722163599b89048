package model

import (
	"github.com/san-kum/modelkit/internal/dataset"
	"github.com/san-kum/modelkit/internal/report"
)

// EconomicBRequired must be bound before Run.
var EconomicBRequired = []string{"KI", "KS", "INW", "EKS", "IMP"}

// EconomicBInputs are all series bound from a dataset, in binding order.
var EconomicBInputs = []string{"twKI", "twKS", "KI", "KS", "INW", "EKS", "IMP"}

var economicBWeights = map[string]float64{
	"KI":  0.4,
	"KS":  0.2,
	"INW": 0.2,
	"EKS": 0.1,
	"IMP": -0.1,
}

// EconomicB computes results[i] = 0.4·KI + 0.2·KS + 0.2·INW + 0.1·EKS − 0.1·IMP.
type EconomicB struct {
	LL      int
	arrays  map[string][]float64
	results []float64
}

func NewEconomicB() *EconomicB {
	return &EconomicB{arrays: make(map[string][]float64)}
}

func (m *EconomicB) Kind() Kind        { return KindEconomicB }
func (m *EconomicB) UsesDataset() bool { return true }

func (m *EconomicB) Bind(t *dataset.Table) error {
	arrays, n, err := bindAligned(t, EconomicBInputs)
	if err != nil {
		return err
	}
	m.LL = n
	m.arrays = arrays
	return nil
}

// SetSeries assigns one input array directly and widens LL to its length.
func (m *EconomicB) SetSeries(name string, values []float64) {
	m.arrays[name] = clone(values)
	if len(values) > m.LL {
		m.LL = len(values)
	}
}

func (m *EconomicB) Run() error {
	if err := requireBound(m.Kind(), m.arrays, EconomicBRequired); err != nil {
		return err
	}

	results := make([]float64, m.LL)
	for i := range results {
		for _, name := range EconomicBRequired {
			results[i] += economicBWeights[name] * at(m.arrays[name], i)
		}
	}
	m.results = results
	return nil
}

func (m *EconomicB) Results() []float64 { return clone(m.results) }

func (m *EconomicB) ScriptInputs() map[string]any {
	return scriptArrays(m.LL, m.arrays, EconomicBInputs)
}

// ApplyScriptOutputs is a no-op: EconomicB has no script output slots.
func (m *EconomicB) ApplyScriptOutputs(map[string][]float64) {}

func (m *EconomicB) Table() report.Table {
	if m.results == nil {
		return report.Table{}
	}
	return report.Table{Rows: []report.Row{{Label: "Results", Values: clone(m.results)}}}
}

// at reads v[i], treating indices past the end as zero.
func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
