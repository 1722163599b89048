// Package orchestrator drives a single active model from dataset binding
// through to its rendered results.
//
// An Orchestrator is the only surface a presentation layer needs. It holds at
// most one model; selecting a kind replaces it. Every failing call leaves the
// active model as it was. An Orchestrator is not safe for concurrent use.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/san-kum/modelkit/internal/dataset"
	"github.com/san-kum/modelkit/internal/model"
	"github.com/san-kum/modelkit/internal/report"
	"github.com/san-kum/modelkit/internal/script"
)

// ErrNoModel indicates an operation issued before any model was selected.
var ErrNoModel = errors.New("orchestrator: no model selected")

type Orchestrator struct {
	registry *model.Registry
	host     *script.Host
	logger   *log.Logger

	active model.Model
	runs   int
}

type options struct {
	agents    model.AgentConfig
	evaluator script.Evaluator
	logger    *log.Logger
}

type Option func(*options)

// WithAgentConfig sets the population used whenever the agent model is selected.
func WithAgentConfig(cfg model.AgentConfig) Option {
	return func(o *options) { o.agents = cfg }
}

// WithEvaluator replaces the default Starlark script backend.
func WithEvaluator(e script.Evaluator) Option {
	return func(o *options) { o.evaluator = e }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func New(opts ...Option) *Orchestrator {
	o := options{
		agents: model.DefaultAgentConfig(),
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Orchestrator{
		registry: model.NewRegistry(o.agents),
		host:     script.NewHost(o.evaluator, script.WithLogger(o.logger)),
		logger:   o.logger,
	}
}

// Select discards the active model and constructs a fresh one of the named
// kind. An unknown name keeps the current model.
func (o *Orchestrator) Select(name string) error {
	m, err := o.registry.New(name)
	if err != nil {
		return err
	}
	o.active = m
	o.runs = 0
	o.logger.Printf("[ORCH] select: kind=%s", m.Kind())
	return nil
}

func (o *Orchestrator) Kinds() []model.Kind { return o.registry.Kinds() }

// Kind returns the active kind, or "" when nothing is selected.
func (o *Orchestrator) Kind() model.Kind {
	if o.active == nil {
		return ""
	}
	return o.active.Kind()
}

// Model exposes the active model for read-only inspection.
func (o *Orchestrator) Model() model.Model { return o.active }

// UsesDataset reports whether the active model accepts Bind.
func (o *Orchestrator) UsesDataset() bool {
	return o.active != nil && o.active.UsesDataset()
}

// Bind loads the dataset at path into the active model.
func (o *Orchestrator) Bind(path string) error {
	if err := o.checkBindable(); err != nil {
		return err
	}
	tbl, err := dataset.Load(path)
	if err != nil {
		return err
	}
	return o.BindTable(tbl)
}

// BindReader parses a dataset from r into the active model.
func (o *Orchestrator) BindReader(r io.Reader) error {
	if err := o.checkBindable(); err != nil {
		return err
	}
	tbl, err := dataset.Parse(r)
	if err != nil {
		return err
	}
	return o.BindTable(tbl)
}

func (o *Orchestrator) BindTable(tbl *dataset.Table) error {
	if err := o.checkBindable(); err != nil {
		return err
	}
	if err := o.active.Bind(tbl); err != nil {
		return err
	}
	n, _ := tbl.Horizon()
	o.logger.Printf("[ORCH] bind: kind=%s horizon=%d series=%d", o.active.Kind(), n, len(tbl.Keys()))
	return nil
}

func (o *Orchestrator) checkBindable() error {
	if o.active == nil {
		return ErrNoModel
	}
	if !o.active.UsesDataset() {
		return fmt.Errorf("%w: %s does not read datasets", model.ErrUnsupportedForModelKind, o.active.Kind())
	}
	return nil
}

func (o *Orchestrator) Run() error {
	if o.active == nil {
		return ErrNoModel
	}
	if err := o.active.Run(); err != nil {
		return err
	}
	o.runs++
	o.logger.Printf("[ORCH] run: kind=%s results=%d", o.active.Kind(), len(o.active.Results()))
	return nil
}

// Runs counts successful runs since the model was selected.
func (o *Orchestrator) Runs() int { return o.runs }

// RunScript evaluates text against the active model.
func (o *Orchestrator) RunScript(ctx context.Context, text string) error {
	if o.active == nil {
		return ErrNoModel
	}
	if err := o.host.Run(ctx, o.active, text); err != nil {
		o.logger.Printf("[ORCH] script failed: %v", err)
		return err
	}
	return nil
}

// RunScriptFile evaluates the script at path against the active model.
func (o *Orchestrator) RunScriptFile(ctx context.Context, path string) error {
	if o.active == nil {
		return ErrNoModel
	}
	if err := o.host.RunFile(ctx, o.active, path); err != nil {
		o.logger.Printf("[ORCH] script %s failed: %v", path, err)
		return err
	}
	return nil
}

// Table returns the active model's current table, empty when nothing is
// selected.
func (o *Orchestrator) Table() report.Table {
	if o.active == nil {
		return report.Table{}
	}
	return o.active.Table()
}

// ResultsTable renders Table as tab-separated text.
func (o *Orchestrator) ResultsTable() string {
	return report.TSV(o.Table())
}
