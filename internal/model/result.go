package model

import (
	"math"

	json "github.com/goccy/go-json"
)

// CashFlowPoint is one discounted period of the series.
type CashFlowPoint struct {
	Period        int     `json:"period"`
	RawValue      float64 `json:"raw_value"`
	UnitDCF       float64 `json:"unit_dcf"`
	CumulativeDCF float64 `json:"cumulative_dcf"`
}

// ProjectedPoint is a terminal-segment period projected for plotting only.
type ProjectedPoint struct {
	Period   int     `json:"period"`
	RawValue float64 `json:"raw_value"`
}

// ComputationResult is derived entirely from a Model.
type ComputationResult struct {
	Series     []CashFlowPoint  `json:"series"`
	Projection []ProjectedPoint `json:"projection,omitempty"`
	// TerminalValue and TotalDCF are infinite when TerminalDegenerate is set.
	TerminalValue      float64 `json:"terminal_value"`
	TerminalDegenerate bool    `json:"terminal_degenerate"`
	TotalDCF           float64 `json:"total_dcf"`
}

// LastPoint returns the final finite period.
func (r *ComputationResult) LastPoint() (CashFlowPoint, bool) {
	if r == nil || len(r.Series) == 0 {
		return CashFlowPoint{}, false
	}
	return r.Series[len(r.Series)-1], true
}

type resultWire struct {
	Series             []CashFlowPoint  `json:"series"`
	Projection         []ProjectedPoint `json:"projection,omitempty"`
	TerminalValue      *float64         `json:"terminal_value"`
	TerminalDegenerate bool             `json:"terminal_degenerate"`
	TotalDCF           *float64         `json:"total_dcf"`
	// Signs are only written when the matching value is null.
	TerminalValueSign int `json:"terminal_value_sign,omitempty"`
	TotalDCFSign      int `json:"total_dcf_sign,omitempty"`
}

// MarshalJSON writes non-finite values as null with a separate sign, since
// JSON has no infinity.
func (r ComputationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultWire{
		Series:             r.Series,
		Projection:         r.Projection,
		TerminalValue:      finiteOrNil(r.TerminalValue),
		TerminalDegenerate: r.TerminalDegenerate,
		TotalDCF:           finiteOrNil(r.TotalDCF),
		TerminalValueSign:  infSign(r.TerminalValue),
		TotalDCFSign:       infSign(r.TotalDCF),
	})
}

// UnmarshalJSON restores a null value as an infinity of the recorded sign,
// +Inf when no sign was written.
func (r *ComputationResult) UnmarshalJSON(b []byte) error {
	var w resultWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	r.Series = w.Series
	r.Projection = w.Projection
	r.TerminalDegenerate = w.TerminalDegenerate
	r.TerminalValue = valueOrInf(w.TerminalValue, w.TerminalValueSign)
	r.TotalDCF = valueOrInf(w.TotalDCF, w.TotalDCFSign)
	return nil
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func infSign(v float64) int {
	switch {
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return -1
	}
	return 0
}

func valueOrInf(v *float64, sign int) float64 {
	if v != nil {
		return *v
	}
	if sign < 0 {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
