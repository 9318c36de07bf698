package segment

import (
	"errors"
	"math"
	"testing"

	"dcf-engine/internal/calcerr"
	"dcf-engine/internal/model"
)

func threeSegments() []model.Segment {
	return []model.Segment{
		model.Finite(2, model.KindConstant, "100"),
		model.Finite(5, model.KindODE, "0.05 * y"),
		model.Finite(8, model.KindTimeFunction, "10 * t"),
		model.Terminal(1.02),
	}
}

func TestResolve(t *testing.T) {
	plan, err := NewPlan(threeSegments())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		period    int
		wantIndex int
		wantStart int
		terminal  bool
	}{
		{1, 0, 0, false},
		{2, 0, 0, false},
		{3, 1, 2, false},
		{5, 1, 2, false},
		{6, 2, 5, false},
		{8, 2, 5, false},
		{9, 3, 8, true},
		{100, 3, 8, true},
	}
	for _, c := range cases {
		span := plan.Resolve(c.period)
		if span.Index != c.wantIndex || span.Start != c.wantStart || span.Terminal != c.terminal {
			t.Fatalf("period %d: got index=%d start=%d terminal=%v", c.period, span.Index, span.Start, span.Terminal)
		}
		if !span.Contains(c.period) {
			t.Fatalf("period %d: span %+v should contain it", c.period, span)
		}
	}

	if plan.LastPeriod() != 8 {
		t.Fatalf("expected last period 8, got %d", plan.LastPeriod())
	}
	if plan.Growth() != 1.02 {
		t.Fatalf("expected growth 1.02, got %v", plan.Growth())
	}
}

func TestInitialValueContinuity(t *testing.T) {
	plan, err := NewPlan(threeSegments())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := []float64{100, 100}

	ode := plan.Resolve(3)
	if got := plan.InitialValue(ode, values); got != 100 {
		t.Fatalf("expected y0 = 100 from previous segment, got %v", got)
	}

	first := plan.Resolve(1)
	if got := plan.InitialValue(first, nil); got != 0 {
		t.Fatalf("expected y0 = 0 for first segment, got %v", got)
	}
}

func TestNewPlanRejectsInvalidOrdering(t *testing.T) {
	cases := []struct {
		name     string
		segments []model.Segment
		code     string
	}{
		{
			name: "decreasing",
			segments: []model.Segment{
				model.Finite(5, model.KindConstant, "1"),
				model.Finite(3, model.KindConstant, "1"),
				model.Terminal(1.02),
			},
			code: "PERIODS_NOT_INCREASING",
		},
		{
			name: "duplicate",
			segments: []model.Segment{
				model.Finite(3, model.KindConstant, "1"),
				model.Finite(3, model.KindConstant, "1"),
				model.Terminal(1.02),
			},
			code: "PERIODS_NOT_INCREASING",
		},
		{
			name:     "empty",
			segments: nil,
			code:     "NO_SEGMENTS",
		},
		{
			name:     "terminal only",
			segments: []model.Segment{model.Terminal(1.02)},
			code:     "NO_SEGMENTS",
		},
		{
			name: "zero end",
			segments: []model.Segment{
				model.Finite(0, model.KindConstant, "1"),
				model.Terminal(1.02),
			},
			code: "INVALID_END_PERIOD",
		},
		{
			name: "end beyond the horizon",
			segments: []model.Segment{
				model.Finite(MaxPeriods+1, model.KindConstant, "1"),
				model.Terminal(1.02),
			},
			code: "INVALID_END_PERIOD",
		},
		{
			name: "huge end",
			segments: []model.Segment{
				model.Finite(2, model.KindConstant, "1"),
				model.Finite(math.MaxInt, model.KindConstant, "1"),
				model.Terminal(1.02),
			},
			code: "INVALID_END_PERIOD",
		},
		{
			name: "terminal in the middle",
			segments: []model.Segment{
				model.Finite(2, model.KindConstant, "1"),
				model.Terminal(1.02),
				model.Finite(4, model.KindConstant, "1"),
			},
			code: "TERMINAL_NOT_LAST",
		},
		{
			name:     "missing terminal",
			segments: []model.Segment{model.Finite(2, model.KindConstant, "1")},
			code:     "MISSING_TERMINAL",
		},
		{
			name: "unknown kind",
			segments: []model.Segment{
				{EndPeriod: model.Period(2), Kind: "linear", Expression: "1"},
				model.Terminal(1.02),
			},
			code: "INVALID_KIND",
		},
	}

	for _, c := range cases {
		_, err := NewPlan(c.segments)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !errors.Is(err, calcerr.ErrInvalidInput) {
			t.Fatalf("%s: expected INVALID_INPUT, got %v", c.name, err)
		}
		if code := calcerr.CodeOf(err); code != c.code {
			t.Fatalf("%s: expected code %s, got %s", c.name, c.code, code)
		}
	}
}

func TestNewPlanAcceptsMaxPeriods(t *testing.T) {
	p, err := NewPlan([]model.Segment{
		model.Finite(MaxPeriods, model.KindConstant, "1"),
		model.Terminal(1.02),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LastPeriod() != MaxPeriods {
		t.Fatalf("expected last period %d, got %d", MaxPeriods, p.LastPeriod())
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		seg  model.Segment
		want model.Kind
	}{
		{model.Segment{Expression: "100"}, model.KindConstant},
		{model.Segment{Expression: "100 * 1.1 ^ t"}, model.KindTimeFunction},
		{model.Segment{Expression: "0.05 * y"}, model.KindODE},
		{model.Segment{Expression: "t * y"}, model.KindODE},
		{model.Segment{Kind: model.KindConstant, Expression: "t"}, model.KindConstant},
	}
	for _, c := range cases {
		if got := KindOf(c.seg); got != c.want {
			t.Fatalf("KindOf(%q) = %s, want %s", c.seg.Expression, got, c.want)
		}
	}
}
