// Package segment maps period indexes to the segment that governs them.
package segment

import (
	"math"

	"dcf-engine/internal/calcerr"
	"dcf-engine/internal/expr"
	"dcf-engine/internal/model"
)

// MaxPeriods is the largest finite end period a plan accepts.
const MaxPeriods = 10_000

// Span is a segment together with the periods it covers: Start is exclusive
// (the previous segment's end, 0 for the first) and End is inclusive. The
// terminal span has End == 0.
type Span struct {
	Index    int
	Segment  model.Segment
	Kind     model.Kind
	Start    int
	End      int
	Terminal bool
}

// Contains reports whether period falls inside the span.
func (s Span) Contains(period int) bool {
	if s.Terminal {
		return period > s.Start
	}
	return period > s.Start && period <= s.End
}

// Plan is a validated, ordered list of spans.
type Plan struct {
	spans    []Span
	terminal Span
}

// NewPlan validates segments and precomputes their spans. Finite end periods
// must lie in 1..MaxPeriods and be strictly increasing, and exactly one terminal segment
// must close the list.
func NewPlan(segments []model.Segment) (*Plan, error) {
	if len(segments) == 0 {
		return nil, calcerr.Invalid("NO_SEGMENTS", "at least one segment is required")
	}

	p := &Plan{}
	prev := 0
	for i, s := range segments {
		if s.IsTerminal() {
			if i != len(segments)-1 {
				return nil, calcerr.Invalid("TERMINAL_NOT_LAST",
					"terminal segment must be last, found at index %d", i).WithContext("index", i)
			}
			if math.IsNaN(s.Growth) || math.IsInf(s.Growth, 0) {
				return nil, calcerr.Invalid("INVALID_GROWTH", "terminal growth must be finite")
			}
			p.terminal = Span{Index: i, Segment: s, Start: prev, Terminal: true}
			continue
		}
		if !s.Kind.Valid() {
			return nil, calcerr.Invalid("INVALID_KIND", "segment %d has unknown kind %q", i, s.Kind).
				WithContext("index", i)
		}
		end := *s.EndPeriod
		if end < 1 || end > MaxPeriods {
			return nil, calcerr.Invalid("INVALID_END_PERIOD",
				"segment %d end period %d must be between 1 and %d", i, end, MaxPeriods).WithContext("index", i)
		}
		if end <= prev {
			return nil, calcerr.Invalid("PERIODS_NOT_INCREASING",
				"segment %d end period %d does not follow %d", i, end, prev).WithContext("index", i)
		}
		p.spans = append(p.spans, Span{
			Index:   i,
			Segment: s,
			Kind:    KindOf(s),
			Start:   prev,
			End:     end,
		})
		prev = end
	}

	if len(p.spans) == 0 {
		return nil, calcerr.Invalid("NO_SEGMENTS", "at least one finite segment is required")
	}
	if !p.terminal.Terminal {
		return nil, calcerr.Invalid("MISSING_TERMINAL", "a terminal segment with a growth factor is required")
	}
	return p, nil
}

// Spans returns the finite spans in order.
func (p *Plan) Spans() []Span { return p.spans }

// Terminal returns the terminal span.
func (p *Plan) Terminal() Span { return p.terminal }

// LastPeriod is the end of the last finite segment.
func (p *Plan) LastPeriod() int { return p.spans[len(p.spans)-1].End }

// Growth is the terminal growth factor.
func (p *Plan) Growth() float64 { return p.terminal.Segment.Growth }

// Resolve returns the span governing period: the first finite span whose end
// is at or after period, else the terminal span.
func (p *Plan) Resolve(period int) Span {
	for _, s := range p.spans {
		if s.End >= period {
			return s
		}
	}
	return p.terminal
}

// InitialValue returns y0 for span: the value produced for the period just
// before the span starts, or zero for the first span. values[i] holds period
// i+1.
func (p *Plan) InitialValue(span Span, values []float64) float64 {
	if span.Start == 0 || span.Start > len(values) {
		return 0
	}
	return values[span.Start-1]
}

// KindOf returns the segment's kind, inferring it from the expression when
// unset: y makes it an ODE, otherwise t makes it a time function.
func KindOf(s model.Segment) model.Kind {
	if s.Kind != "" {
		return s.Kind
	}
	refs := expr.References(s.Expression)
	switch {
	case refs.Y:
		return model.KindODE
	case refs.T:
		return model.KindTimeFunction
	}
	return model.KindConstant
}
