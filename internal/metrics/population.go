package metrics

import "math"

// Mean is the average agent state at the latest step.
type Mean struct {
	last float64
}

func NewMean() *Mean { return &Mean{} }

func (m *Mean) Name() string { return "mean_state" }

func (m *Mean) Observe(step int, states []float64) {
	if len(states) == 0 {
		m.last = 0
		return
	}
	sum := 0.0
	for _, v := range states {
		sum += v
	}
	m.last = sum / float64(len(states))
}

func (m *Mean) Value() float64 { return m.last }
func (m *Mean) Reset()         { m.last = 0 }

// Spread is max minus min of the agent states at the latest step.
type Spread struct {
	last float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(step int, states []float64) {
	if len(states) == 0 {
		s.last = 0
		return
	}
	lo, hi := states[0], states[0]
	for _, v := range states[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	s.last = hi - lo
}

func (s *Spread) Value() float64 { return s.last }
func (s *Spread) Reset()         { s.last = 0 }

// Activity is the mean absolute per-agent change between consecutive steps.
type Activity struct {
	prev    []float64
	sum     float64
	samples int
}

func NewActivity() *Activity { return &Activity{} }

func (a *Activity) Name() string { return "activity" }

func (a *Activity) Observe(step int, states []float64) {
	if a.prev != nil && len(a.prev) == len(states) {
		for i, v := range states {
			a.sum += math.Abs(v - a.prev[i])
			a.samples++
		}
	}
	a.prev = append(a.prev[:0], states...)
}

func (a *Activity) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Activity) Reset() {
	a.prev = nil
	a.sum = 0
	a.samples = 0
}
