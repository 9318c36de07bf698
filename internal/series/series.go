// Package series turns a model's segments into a per-period cash-flow series.
package series

import (
	"fmt"
	"math"

	"dcf-engine/internal/calcerr"
	"dcf-engine/internal/expr"
	"dcf-engine/internal/model"
	"dcf-engine/internal/ode"
	"dcf-engine/internal/segment"
)

// MaxPlotPeriods bounds the plotting projection under the terminal segment.
const MaxPlotPeriods = 10_000

// Options carries solver settings that are not part of the model.
type Options struct {
	// ODE supplies method, tolerances and the step bound. Its step size is
	// replaced by the model's ode_step_size; a model ode_method overrides Method.
	ODE ode.Config
}

// DefaultOptions returns rk4 with the standard tolerances and step bound.
func DefaultOptions() Options {
	return Options{ODE: ode.DefaultConfig(0)}
}

// Diagnostic describes something that was absorbed rather than failed.
type Diagnostic struct {
	SegmentIndex int
	Code         string
	Message      string
}

const (
	CodeParseError    = "EXPRESSION_PARSE_ERROR"
	CodeStepTruncated = "ODE_STEP_TRUNCATED"
	CodeNonFinite     = "NON_FINITE_VALUE"
)

// Series is the generated cash flow. Values[i] belongs to period i+1.
type Series struct {
	Values      []float64
	Projection  []model.ProjectedPoint
	Growth      float64
	Diagnostics []Diagnostic
}

// LastValue returns the cash flow of the last finite period.
func (s *Series) LastValue() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// Generate evaluates every period from 1 to the last finite end period. It
// returns an INVALID_INPUT error, and no series, when the model's segments or
// solver settings are malformed.
func Generate(m model.Model, opts Options) (*Series, error) {
	plan, err := segment.NewPlan(m.Segments)
	if err != nil {
		return nil, err
	}

	cfg := opts.ODE
	cfg.InitialStepSize = m.ODEStepSize
	if m.ODEMethod != "" {
		cfg.Method = m.ODEMethod
	}
	if err := cfg.Validate(); err != nil {
		return nil, calcerr.Wrap("INVALID_SOLVER", "invalid ODE settings", err)
	}
	if m.PlotPeriods < 0 || m.PlotPeriods > MaxPlotPeriods {
		return nil, calcerr.Invalid("INVALID_PLOT_PERIODS",
			"plot periods must be between 0 and %d, got %d", MaxPlotPeriods, m.PlotPeriods)
	}

	g := &generator{
		plan:     plan,
		cfg:      cfg,
		programs: make(map[int]*expr.Program),
		odes:     make(map[int][]float64),
	}
	last := plan.LastPeriod()
	out := &Series{
		Values: make([]float64, 0, last),
		Growth: plan.Growth(),
	}
	for period := 1; period <= last; period++ {
		out.Values = append(out.Values, g.value(period, out.Values))
	}
	out.Diagnostics = g.diagnostics
	out.Projection = project(out.LastValue(), plan.Growth(), last, m.PlotPeriods)
	return out, nil
}

type generator struct {
	plan        *segment.Plan
	cfg         ode.Config
	programs    map[int]*expr.Program
	odes        map[int][]float64
	diagnostics []Diagnostic
}

func (g *generator) value(period int, prior []float64) float64 {
	span := g.plan.Resolve(period)
	prog := g.program(span)

	switch span.Kind {
	case model.KindODE:
		traj, ok := g.odes[span.Index]
		if !ok {
			y0 := g.plan.InitialValue(span, prior)
			var stats ode.Statistics
			traj, stats = ode.Trajectory(prog.Func(), span.Start, y0, span.End, g.cfg)
			if stats.Truncated {
				g.diagnostics = append(g.diagnostics, Diagnostic{
					SegmentIndex: span.Index,
					Code:         CodeStepTruncated,
					Message:      fmt.Sprintf("step size %v needs more than %d steps for segment %d; coarser steps used", g.cfg.InitialStepSize, g.cfg.MaxStepCount, span.Index),
				})
			}
			g.odes[span.Index] = traj
		}
		return g.finite(span, traj[period-span.Start-1])
	default:
		v, _ := prog.Eval(float64(period), 0)
		return v
	}
}

func (g *generator) program(span segment.Span) *expr.Program {
	if prog, ok := g.programs[span.Index]; ok {
		return prog
	}
	prog, err := expr.Parse(span.Segment.Expression)
	if err != nil {
		g.diagnostics = append(g.diagnostics, Diagnostic{
			SegmentIndex: span.Index,
			Code:         CodeParseError,
			Message:      fmt.Sprintf("segment %d expression %q evaluates to 0: %v", span.Index, span.Segment.Expression, err),
		})
		prog = expr.Compile(span.Segment.Expression)
	}
	g.programs[span.Index] = prog
	return prog
}

// finite replaces an overflowed integration result with zero, in keeping with
// the evaluator's lenient contract.
func (g *generator) finite(span segment.Span, v float64) float64 {
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	g.diagnostics = append(g.diagnostics, Diagnostic{
		SegmentIndex: span.Index,
		Code:         CodeNonFinite,
		Message:      fmt.Sprintf("segment %d produced a non-finite value; 0 used", span.Index),
	})
	return 0
}

// project continues the series as base * growth^k for plotting.
func project(base, growth float64, last, periods int) []model.ProjectedPoint {
	if periods == 0 {
		return nil
	}
	out := make([]model.ProjectedPoint, 0, periods)
	v := base
	for k := 1; k <= periods; k++ {
		v *= growth
		if math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		out = append(out, model.ProjectedPoint{Period: last + k, RawValue: v})
	}
	return out
}
