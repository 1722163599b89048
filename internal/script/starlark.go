package script

import (
	"context"
	"errors"
	"fmt"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
)

func init() {
	// Scripts are flat top-level code that reassigns globals.
	resolve.AllowGlobalReassign = true
	resolve.AllowRecursion = true
	resolve.AllowSet = true
}

// Starlark evaluates scripts with go.starlark.net. Arrays are bound as lists
// of floats, integers as ints and nil arrays as None.
type Starlark struct {
	filename string
	print    func(msg string)
}

type StarlarkOption func(*Starlark)

func WithPrint(fn func(msg string)) StarlarkOption {
	return func(s *Starlark) { s.print = fn }
}

// WithFilename sets the name used in error positions.
func WithFilename(name string) StarlarkOption {
	return func(s *Starlark) { s.filename = name }
}

func NewStarlark(opts ...StarlarkOption) *Starlark {
	s := &Starlark{filename: "script.star"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Starlark) Evaluate(ctx context.Context, src string, inputs map[string]any) (map[string]any, error) {
	predeclared := make(starlark.StringDict, len(inputs))
	for name, v := range inputs {
		sv, err := toStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
		predeclared[name] = sv
	}

	thread := &starlark.Thread{
		Name: s.filename,
		Print: func(_ *starlark.Thread, msg string) {
			if s.print != nil {
				s.print(msg)
			}
		},
	}

	if ctx.Done() != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				thread.Cancel(ctx.Err().Error())
			case <-done:
			}
		}()
	}

	globals, err := starlark.ExecFile(thread, s.filename, src, predeclared)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, errors.New(evalErr.Backtrace())
		}
		return nil, err
	}

	out := make(map[string]any, len(globals))
	for _, name := range globals.Keys() {
		out[name] = fromStarlark(globals[name])
	}
	return out, nil
}

func toStarlark(v any) (starlark.Value, error) {
	switch x := v.(type) {
	case nil:
		return starlark.None, nil
	case []float64:
		if x == nil {
			return starlark.None, nil
		}
		elems := make([]starlark.Value, len(x))
		for i, f := range x {
			elems[i] = starlark.Float(f)
		}
		return starlark.NewList(elems), nil
	case float64:
		return starlark.Float(x), nil
	case int:
		return starlark.MakeInt(x), nil
	case int64:
		return starlark.MakeInt64(x), nil
	case string:
		return starlark.String(x), nil
	case bool:
		return starlark.Bool(x), nil
	default:
		return nil, fmt.Errorf("unsupported binding type %T", v)
	}
}

// fromStarlark maps plain data to Go values. Values with no Go counterpart,
// such as functions, are returned unchanged.
func fromStarlark(v starlark.Value) any {
	switch x := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Float:
		return float64(x)
	case starlark.Int:
		if n, ok := x.Int64(); ok {
			return n
		}
		f, _ := starlark.AsFloat(x)
		return f
	case starlark.Bool:
		return bool(x)
	case starlark.String:
		return string(x)
	case *starlark.List:
		out := make([]any, x.Len())
		for i := range out {
			out[i] = fromStarlark(x.Index(i))
		}
		return out
	case starlark.Tuple:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromStarlark(e)
		}
		return out
	default:
		return v
	}
}
