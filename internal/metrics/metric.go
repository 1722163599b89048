package metrics

// Metric accumulates a summary over the agent states reported after each step.
type Metric interface {
	Name() string
	Observe(step int, states []float64)
	Value() float64
	Reset()
}

// Recorder fans step notifications out to a set of metrics. It satisfies
// model.StepObserver.
type Recorder struct {
	metrics []Metric
}

func NewRecorder(ms ...Metric) *Recorder {
	return &Recorder{metrics: ms}
}

// Defaults returns the metrics reported for agent runs.
func Defaults() []Metric {
	return []Metric{
		NewMean(),
		NewSpread(),
		NewActivity(),
		NewStability(5.0),
	}
}

func (r *Recorder) OnStep(step int, states []float64) {
	for _, m := range r.metrics {
		m.Observe(step, states)
	}
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
}

// Values maps each metric name to its current value.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names lists metric names in registration order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}
