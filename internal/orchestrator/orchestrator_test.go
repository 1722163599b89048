package orchestrator_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/modelkit/internal/dataset"
	"github.com/san-kum/modelkit/internal/model"
	"github.com/san-kum/modelkit/internal/orchestrator"
	"github.com/san-kum/modelkit/internal/report"
	"github.com/san-kum/modelkit/internal/script"
)

const sampleData = `LATA 2015 2016
twKI 0.5
twKS 0.25
KI 1 2
KS 0 0
INW 0
EKS 0
IMP 0
`

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
	return path
}

type recordingEvaluator struct {
	calls int
}

func (r *recordingEvaluator) Evaluate(ctx context.Context, src string, inputs map[string]any) (map[string]any, error) {
	r.calls++
	if src == "fail" {
		return nil, errors.New("injected failure")
	}
	return map[string]any{model.OutputZDEKS: []float64{float64(r.calls)}}, nil
}

var _ = Describe("Orchestrator", func() {
	var (
		orch *orchestrator.Orchestrator
		dir  string
		ctx  context.Context
	)

	BeforeEach(func() {
		orch = orchestrator.New()
		dir = GinkgoT().TempDir()
		ctx = context.Background()
	})

	Describe("before any selection", func() {
		It("rejects every operation with ErrNoModel", func() {
			Expect(orch.Bind("data.txt")).To(MatchError(orchestrator.ErrNoModel))
			Expect(orch.Run()).To(MatchError(orchestrator.ErrNoModel))
			Expect(orch.RunScript(ctx, "x = 1")).To(MatchError(orchestrator.ErrNoModel))
			Expect(orch.RunScriptFile(ctx, "s.star")).To(MatchError(orchestrator.ErrNoModel))
		})

		It("renders an empty table", func() {
			Expect(orch.ResultsTable()).To(BeEmpty())
			Expect(orch.Kind()).To(BeEmpty())
		})
	})

	Describe("Select", func() {
		It("accepts canonical and legacy names", func() {
			Expect(orch.Select("EconomicModelB")).To(Succeed())
			Expect(orch.Kind()).To(Equal(model.KindEconomicB))
			Expect(orch.Select("MultiAgentSim")).To(Succeed())
			Expect(orch.Kind()).To(Equal(model.KindAgentBased))
		})

		It("fails with ErrUnknownModelKind and keeps the active model", func() {
			Expect(orch.Select("EconomicModelB")).To(Succeed())
			err := orch.Select("Model9")
			Expect(errors.Is(err, model.ErrUnknownModelKind)).To(BeTrue())
			Expect(orch.Kind()).To(Equal(model.KindEconomicB))
		})

		It("discards the previous model's state", func() {
			Expect(orch.Select("EconomicModelB")).To(Succeed())
			Expect(orch.Bind(writeFile(dir, "d.txt", sampleData))).To(Succeed())
			Expect(orch.Run()).To(Succeed())
			Expect(orch.Runs()).To(Equal(1))

			Expect(orch.Select("EconomicModelB")).To(Succeed())
			Expect(orch.Runs()).To(Equal(0))
			Expect(orch.ResultsTable()).To(BeEmpty())
			Expect(errors.Is(orch.Run(), model.ErrMissingInputData)).To(BeTrue())
		})

		It("lists all kinds", func() {
			Expect(orch.Kinds()).To(ConsistOf(model.KindEconomicA, model.KindEconomicB, model.KindAgentBased))
		})
	})

	Describe("EconomicModelB", func() {
		BeforeEach(func() {
			Expect(orch.Select("EconomicModelB")).To(Succeed())
		})

		It("binds, runs and renders a single Results row", func() {
			Expect(orch.Bind(writeFile(dir, "d.txt", sampleData))).To(Succeed())
			Expect(orch.Run()).To(Succeed())
			Expect(orch.ResultsTable()).To(Equal("Results\t0.40\t0.80\t\n"))
		})

		It("fails Run before binding", func() {
			Expect(errors.Is(orch.Run(), model.ErrMissingInputData)).To(BeTrue())
		})

		It("reports dataset errors as distinct kinds", func() {
			err := orch.Bind(filepath.Join(dir, "missing.txt"))
			Expect(errors.Is(err, dataset.ErrFileNotFound)).To(BeTrue())

			err = orch.Bind(writeFile(dir, "nolata.txt", "KI 1 2\n"))
			Expect(errors.Is(err, dataset.ErrMissingRequiredSeries)).To(BeTrue())

			err = orch.Bind(writeFile(dir, "bad.txt", "LATA 1 2\nKI 1 two\n"))
			Expect(errors.Is(err, dataset.ErrParse)).To(BeTrue())
		})

		It("keeps earlier data when a later bind fails", func() {
			Expect(orch.Bind(writeFile(dir, "d.txt", sampleData))).To(Succeed())
			Expect(orch.BindReader(strings.NewReader("KI 5 5\n"))).NotTo(Succeed())
			Expect(orch.Run()).To(Succeed())
			Expect(orch.Model().Results()).To(HaveLen(2))
		})
	})

	Describe("EconomicModelA", func() {
		BeforeEach(func() {
			Expect(orch.Select("EconomicModelA")).To(Succeed())
			Expect(orch.BindReader(strings.NewReader(sampleData))).To(Succeed())
			Expect(orch.Run()).To(Succeed())
		})

		It("renders the dated header and series rows in order", func() {
			out := orch.ResultsTable()
			Expect(out).To(HavePrefix("LATA\t2015\t2016\t"))

			_, rows := report.ParseTSV(out)
			labels := make([]string, len(rows))
			for i, r := range rows {
				labels[i] = r[0]
			}
			Expect(labels).To(Equal(append(append([]string{}, model.EconomicAInputs...), "PKB")))
		})

		It("computes PKB from the weight series", func() {
			// 0.5*KI + 0.25*KS
			Expect(orch.Model().Results()).To(Equal([]float64{0.5, 1}))
		})

		It("appends script outputs as trailing rows", func() {
			Expect(orch.RunScript(ctx, "GDPGrowth = [KI[0] * 2, KI[1] * 2]\nZDEKS = [LL, LL]")).To(Succeed())

			out := orch.ResultsTable()
			Expect(out).To(ContainSubstring("GDPGrowth (%)\t2.00\t4.00\t\n"))
			Expect(out).To(HaveSuffix("ZDEKS\t2.00\t2.00\t\n"))
		})

		It("runs file scripts through the same path", func() {
			path := writeFile(dir, "s.star", "GDPGrowth = [PKB[0], PKB[1]]\n")
			Expect(orch.RunScriptFile(ctx, path)).To(Succeed())
			row, ok := orch.Table().Row(model.LabelGDPGrowth)
			Expect(ok).To(BeTrue())
			Expect(row.Values).To(Equal([]float64{0.5, 1}))
		})

		It("leaves the model untouched when a script fails", func() {
			before := orch.ResultsTable()
			err := orch.RunScript(ctx, "GDPGrowth = [1.0]\nraise_error()")
			Expect(errors.Is(err, script.ErrEvaluation)).To(BeTrue())
			Expect(orch.ResultsTable()).To(Equal(before))
		})

		It("ignores unrecognised output names", func() {
			before := orch.ResultsTable()
			Expect(orch.RunScript(ctx, "Other = [1.0]")).To(Succeed())
			Expect(orch.ResultsTable()).To(Equal(before))
		})
	})

	Describe("AgentBasedModel", func() {
		BeforeEach(func() {
			Expect(orch.Select("AgentBasedModel")).To(Succeed())
		})

		It("rejects binding before touching the file system", func() {
			before := orch.ResultsTable()
			err := orch.Bind(filepath.Join(dir, "does-not-exist.txt"))
			Expect(errors.Is(err, model.ErrUnsupportedForModelKind)).To(BeTrue())
			Expect(errors.Is(err, dataset.ErrFileNotFound)).To(BeFalse())
			Expect(orch.ResultsTable()).To(Equal(before))
			Expect(orch.UsesDataset()).To(BeFalse())
		})

		It("runs without data and renders one Agent States row", func() {
			Expect(orch.Run()).To(Succeed())
			header, rows := report.ParseTSV(orch.ResultsTable())
			Expect(header[0]).To(Equal("Agent States"))
			Expect(header).To(HaveLen(4))
			Expect(rows).To(BeEmpty())
		})

		It("reproduces trajectories for the same seed", func() {
			cfg := model.AgentConfig{InitialStates: []float64{1, 2, 3}, Steps: 10, Seed: 42}
			a := orchestrator.New(orchestrator.WithAgentConfig(cfg))
			b := orchestrator.New(orchestrator.WithAgentConfig(cfg))
			for _, o := range []*orchestrator.Orchestrator{a, b} {
				Expect(o.Select("AgentBasedModel")).To(Succeed())
				Expect(o.Run()).To(Succeed())
			}
			Expect(a.Model().Results()).To(Equal(b.Model().Results()))
			Expect(a.ResultsTable()).To(Equal(b.ResultsTable()))

			cfg.Seed = 43
			c := orchestrator.New(orchestrator.WithAgentConfig(cfg))
			Expect(c.Select("AgentBasedModel")).To(Succeed())
			Expect(c.Run()).To(Succeed())
			Expect(c.Model().Results()).NotTo(Equal(a.Model().Results()))
		})
	})

	Describe("injected evaluator", func() {
		It("routes scripts through the supplied backend", func() {
			ev := &recordingEvaluator{}
			o := orchestrator.New(orchestrator.WithEvaluator(ev))
			Expect(o.Select("EconomicModelA")).To(Succeed())
			Expect(o.BindReader(strings.NewReader(sampleData))).To(Succeed())

			Expect(o.RunScript(ctx, "anything")).To(Succeed())
			Expect(o.RunScript(ctx, "fail")).NotTo(Succeed())
			Expect(ev.calls).To(Equal(2))

			row, ok := o.Table().Row(model.LabelZDEKS)
			Expect(ok).To(BeTrue())
			Expect(row.Values).To(Equal([]float64{1}))
		})
	})

	It("logs operations through the injected logger", func() {
		var buf bytes.Buffer
		o := orchestrator.New(orchestrator.WithLogger(log.New(&buf, "", 0)))
		Expect(o.Select("EconomicModelB")).To(Succeed())
		Expect(o.BindReader(strings.NewReader(sampleData))).To(Succeed())
		Expect(o.Run()).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("[ORCH] select: kind=EconomicModelB"))
		Expect(buf.String()).To(ContainSubstring("[ORCH] run:"))
	})
})
