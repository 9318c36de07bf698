package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"dcf-engine/internal/model"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   string
	}{
		{100 / 1.08, 2, "92.59"},
		{2.5, 0, "3"},
		{-2.5, 0, "-3"},
		{1, 4, "1.0000"},
		{math.Inf(1), 2, "+Inf"},
		{math.Inf(-1), 2, "-Inf"},
		{math.NaN(), 2, "NaN"},
	}
	for _, tt := range tests {
		if got := Amount(tt.v, tt.places); got != tt.want {
			t.Fatalf("Amount(%v, %d): expected %s, got %s", tt.v, tt.places, tt.want, got)
		}
	}
}

func TestWrite(t *testing.T) {
	res := &model.ComputationResult{
		Series: []model.CashFlowPoint{
			{Period: 1, RawValue: 108, UnitDCF: 100, CumulativeDCF: 100},
			{Period: 2, RawValue: 116.64, UnitDCF: 100, CumulativeDCF: 200},
		},
		Projection:         []model.ProjectedPoint{{Period: 3, RawValue: 118.9728}},
		TerminalValue:      math.Inf(1),
		TerminalDegenerate: true,
		TotalDCF:           math.Inf(1),
	}
	msgs := []model.CalculationMessage{{Level: model.LevelWarning, Code: "DEGENERATE_TERMINAL_VALUE", Message: "unbounded"}}

	var buf bytes.Buffer
	if err := Write(&buf, res, msgs, DefaultPlaces); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"CUMULATIVE", "116.64", "200.00", "Terminal value: +Inf", "118.97", "WARNING DEGENERATE_TERMINAL_VALUE"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
