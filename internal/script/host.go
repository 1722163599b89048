// Package script lets trusted user scripts read and extend a model's state.
//
// A [Host] builds a fresh binding set from the model on every call, hands it to
// an [Evaluator], and copies back only the recognised output names
// (GDPGrowth and ZDEKS). Reassigning an input name inside a script has no
// effect on the model.
//
// The [Evaluator] port is the execution boundary: the default [Starlark]
// backend runs synchronously and stops only when its context is cancelled,
// so a caller that wants a timeout passes a context with a deadline.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/san-kum/modelkit/internal/model"
)

// ErrEvaluation indicates the script failed or produced an output that is not
// a numeric array.
var ErrEvaluation = errors.New("script: evaluation failed")

// Outputs are the binding names read back after evaluation.
var Outputs = []string{model.OutputGDPGrowth, model.OutputZDEKS}

// Evaluator runs src with inputs predeclared and returns the bindings the
// script defined.
type Evaluator interface {
	Evaluate(ctx context.Context, src string, inputs map[string]any) (map[string]any, error)
}

// Bindable is the part of a model a script can see.
type Bindable interface {
	ScriptInputs() map[string]any
	ApplyScriptOutputs(out map[string][]float64)
}

type Host struct {
	eval   Evaluator
	logger *log.Logger
}

type Option func(*Host)

func WithLogger(l *log.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// NewHost returns a host backed by eval, or by a Starlark evaluator when eval
// is nil.
func NewHost(eval Evaluator, opts ...Option) *Host {
	h := &Host{
		eval:   eval,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.eval == nil {
		h.eval = NewStarlark(WithPrint(func(msg string) { h.logger.Printf("[SCRIPT] %s", msg) }))
	}
	return h
}

// Run evaluates src against m. On any failure m is left unchanged.
func (h *Host) Run(ctx context.Context, m Bindable, src string) error {
	inputs := m.ScriptInputs()
	h.logger.Printf("[SCRIPT] evaluating %d bytes with %d bindings", len(src), len(inputs))

	out, err := h.eval.Evaluate(ctx, src, inputs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEvaluation, err)
	}

	read := make(map[string][]float64, len(Outputs))
	for _, name := range Outputs {
		v, ok := out[name]
		if !ok || v == nil {
			continue
		}
		values, err := toFloats(v)
		if err != nil {
			return fmt.Errorf("%w: output %s: %v", ErrEvaluation, name, err)
		}
		read[name] = values
	}

	m.ApplyScriptOutputs(read)
	h.logger.Printf("[SCRIPT] applied %d outputs", len(read))
	return nil
}

// RunFile reads the script at path and evaluates it like Run.
func (h *Host) RunFile(ctx context.Context, m Bindable, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return h.Run(ctx, m, string(src))
}

// toFloats converts a script value into a numeric array.
func toFloats(v any) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		return append([]float64(nil), x...), nil
	case []int:
		out := make([]float64, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out, nil
	case []any:
		out := make([]float64, len(x))
		for i, e := range x {
			f, ok := toFloat(e)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not a number", i, e)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("got %T, want a numeric array", v)
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}
