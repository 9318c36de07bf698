package model

// Kind classifies how a segment produces its cash flows.
type Kind string

const (
	KindConstant     Kind = "constant"
	KindTimeFunction Kind = "time_function"
	KindODE          Kind = "ode"
)

// Valid reports whether k is a known kind. The empty kind is valid and means
// "infer from the expression".
func (k Kind) Valid() bool {
	switch k {
	case "", KindConstant, KindTimeFunction, KindODE:
		return true
	}
	return false
}

// ODE integration methods.
const (
	MethodRK4    = "rk4"
	MethodDopri5 = "dopri5"
)

// Segment is a contiguous run of periods governed by one expression.
// A nil EndPeriod marks the terminal segment, which carries Growth instead
// of an expression.
type Segment struct {
	EndPeriod  *int    `json:"end_period" yaml:"end_period"`
	Kind       Kind    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Expression string  `json:"expression,omitempty" yaml:"expression,omitempty"`
	Growth     float64 `json:"growth,omitempty" yaml:"growth,omitempty"`
}

// IsTerminal reports whether s is the infinite segment.
func (s Segment) IsTerminal() bool { return s.EndPeriod == nil }

// Model is the complete input of a calculation.
type Model struct {
	Segments     []Segment `json:"segments" yaml:"segments"`
	DiscountRate float64   `json:"discount_rate" yaml:"discount_rate"`
	ODEStepSize  float64   `json:"ode_step_size" yaml:"ode_step_size"`
	ODEMethod    string    `json:"ode_method,omitempty" yaml:"ode_method,omitempty"`
	PlotPeriods  int       `json:"plot_periods,omitempty" yaml:"plot_periods,omitempty"`
}

// Period returns a pointer to p, for building finite segments.
func Period(p int) *int { return &p }

// Finite builds a finite segment.
func Finite(end int, kind Kind, expression string) Segment {
	return Segment{EndPeriod: Period(end), Kind: kind, Expression: expression}
}

// Terminal builds the terminal segment.
func Terminal(growth float64) Segment {
	return Segment{Growth: growth}
}

// Clone returns a deep copy; edits mutate clones, never the caller's model.
func (m Model) Clone() Model {
	out := m
	out.Segments = make([]Segment, len(m.Segments))
	for i, s := range m.Segments {
		if s.EndPeriod != nil {
			s.EndPeriod = Period(*s.EndPeriod)
		}
		out.Segments[i] = s
	}
	return out
}

// TerminalSegment returns the last segment if it is terminal.
func (m Model) TerminalSegment() (Segment, bool) {
	if len(m.Segments) == 0 {
		return Segment{}, false
	}
	last := m.Segments[len(m.Segments)-1]
	return last, last.IsTerminal()
}

// FiniteCount returns the number of finite segments.
func (m Model) FiniteCount() int {
	n := 0
	for _, s := range m.Segments {
		if !s.IsTerminal() {
			n++
		}
	}
	return n
}
