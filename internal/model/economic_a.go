package model

import (
	"github.com/san-kum/modelkit/internal/dataset"
	"github.com/san-kum/modelkit/internal/report"
)

// Row labels for the script outputs in EconomicA's table.
const (
	LabelGDPGrowth = "GDPGrowth (%)"
	LabelZDEKS     = "ZDEKS"
)

// EconomicAInputs lists the bound series in table order.
var EconomicAInputs = []string{
	"twKI", "twKS", "twINW", "twEKS", "twIMP",
	"KI", "KS", "INW", "EKS", "IMP",
}

// weighted pairs each component with its weight series; sign -1 subtracts.
var weighted = []struct {
	weight, value string
	sign          float64
}{
	{"twKI", "KI", 1},
	{"twKS", "KS", 1},
	{"twINW", "INW", 1},
	{"twEKS", "EKS", 1},
	{"twIMP", "IMP", -1},
}

// EconomicA aggregates ten dated series into PKB. Scripts may attach the
// GDPGrowth and ZDEKS series, which are reported after PKB.
//
// PKB[i] = twKI·KI + twKS·KS + twINW·INW + twEKS·EKS − twIMP·IMP, each term
// taken at index i.
type EconomicA struct {
	LL     int
	arrays map[string][]float64

	PKB       []float64
	GDPGrowth []float64
	ZDEKS     []float64
}

func NewEconomicA() *EconomicA {
	return &EconomicA{arrays: make(map[string][]float64)}
}

func (m *EconomicA) Kind() Kind        { return KindEconomicA }
func (m *EconomicA) UsesDataset() bool { return true }

func (m *EconomicA) Bind(t *dataset.Table) error {
	arrays, n, err := bindAligned(t, EconomicAInputs)
	if err != nil {
		return err
	}
	m.LL = n
	m.arrays = arrays
	return nil
}

// Series returns the bound input array for name.
func (m *EconomicA) Series(name string) []float64 {
	return m.arrays[name]
}

func (m *EconomicA) Run() error {
	if err := requireBound(m.Kind(), m.arrays, EconomicAInputs); err != nil {
		return err
	}

	pkb := make([]float64, m.LL)
	for i := range pkb {
		for _, w := range weighted {
			pkb[i] += w.sign * m.arrays[w.weight][i] * m.arrays[w.value][i]
		}
	}
	m.PKB = pkb
	return nil
}

func (m *EconomicA) Results() []float64 { return clone(m.PKB) }

func (m *EconomicA) ScriptInputs() map[string]any {
	in := scriptArrays(m.LL, m.arrays, EconomicAInputs)
	in["PKB"] = clone(m.PKB)
	return in
}

func (m *EconomicA) ApplyScriptOutputs(out map[string][]float64) {
	if v, ok := out[OutputGDPGrowth]; ok {
		m.GDPGrowth = clone(v)
	}
	if v, ok := out[OutputZDEKS]; ok {
		m.ZDEKS = clone(v)
	}
}

func (m *EconomicA) Table() report.Table {
	if m.arrays[EconomicAInputs[0]] == nil {
		return report.Table{}
	}

	rows := appendRows(make([]report.Row, 0, len(EconomicAInputs)+3), m.arrays, EconomicAInputs)
	if m.PKB != nil {
		rows = append(rows, report.Row{Label: "PKB", Values: clone(m.PKB)})
	}
	if m.GDPGrowth != nil {
		rows = append(rows, report.Row{Label: LabelGDPGrowth, Values: clone(m.GDPGrowth)})
	}
	if m.ZDEKS != nil {
		rows = append(rows, report.Row{Label: LabelZDEKS, Values: clone(m.ZDEKS)})
	}
	return report.Table{
		Header: report.YearHeader(dataset.HorizonKey, m.LL),
		Rows:   rows,
	}
}
