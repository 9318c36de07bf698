package model

import (
	"math"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

func TestCloneIsDeep(t *testing.T) {
	m := Model{
		Segments:     []Segment{Finite(3, KindConstant, "1"), Terminal(1.02)},
		DiscountRate: 1.08,
	}
	c := m.Clone()
	*c.Segments[0].EndPeriod = 9
	c.Segments[1].Growth = 2

	if *m.Segments[0].EndPeriod != 3 || m.Segments[1].Growth != 1.02 {
		t.Fatalf("clone shares state with the original: %+v", m.Segments)
	}
	if c.Segments[1].EndPeriod != nil {
		t.Fatal("terminal segment must stay terminal")
	}
}

func TestTerminalSegment(t *testing.T) {
	m := Model{Segments: []Segment{Finite(3, KindConstant, "1"), Terminal(1.02)}}
	if s, ok := m.TerminalSegment(); !ok || s.Growth != 1.02 {
		t.Fatalf("expected the terminal segment, got %+v, %v", s, ok)
	}
	if m.FiniteCount() != 1 {
		t.Fatalf("expected 1 finite segment, got %d", m.FiniteCount())
	}
	if _, ok := (Model{}).TerminalSegment(); ok {
		t.Fatal("an empty model has no terminal segment")
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{"", KindConstant, KindTimeFunction, KindODE} {
		if !k.Valid() {
			t.Fatalf("expected %q to be valid", k)
		}
	}
	if Kind("poly").Valid() {
		t.Fatal("expected an unknown kind to be invalid")
	}
}

func TestResultNonFiniteAsNull(t *testing.T) {
	r := ComputationResult{
		Series:             []CashFlowPoint{{Period: 1, RawValue: 5, UnitDCF: 5, CumulativeDCF: 5}},
		TerminalValue:      math.Inf(1),
		TerminalDegenerate: true,
		TotalDCF:           math.Inf(1),
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"terminal_value":null`) || !strings.Contains(string(b), `"total_dcf":null`) {
		t.Fatalf("expected null terminal and total values, got %s", b)
	}

	var back ComputationResult
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsInf(back.TerminalValue, 1) || !back.TerminalDegenerate || len(back.Series) != 1 {
		t.Fatalf("unexpected decoded result %+v", back)
	}
}

func TestResultNegativeInfinityKeepsSign(t *testing.T) {
	r := ComputationResult{
		Series:             []CashFlowPoint{{Period: 1, RawValue: -5, UnitDCF: -5, CumulativeDCF: -5}},
		TerminalValue:      math.Inf(-1),
		TerminalDegenerate: true,
		TotalDCF:           math.Inf(-1),
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"terminal_value_sign":-1`) || !strings.Contains(string(b), `"total_dcf_sign":-1`) {
		t.Fatalf("expected negative signs, got %s", b)
	}

	var back ComputationResult
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !math.IsInf(back.TerminalValue, -1) || !math.IsInf(back.TotalDCF, -1) {
		t.Fatalf("expected -Inf after decoding, got %v and %v", back.TerminalValue, back.TotalDCF)
	}
}

func TestResultFiniteOmitsSign(t *testing.T) {
	b, err := json.Marshal(ComputationResult{TerminalValue: -3, TotalDCF: 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "_sign") {
		t.Fatalf("expected no sign fields for finite values, got %s", b)
	}
}
