// Package discount converts a cash-flow series into present values and the
// aggregate DCF figures.
package discount

import (
	"math"

	"dcf-engine/internal/calcerr"
	"dcf-engine/internal/model"
)

// degenerateEpsilon treats rates this close to the growth factor as equal.
const degenerateEpsilon = 1e-12

// ValidateRate checks that rate is a usable discount rate.
func ValidateRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return calcerr.Invalid("INVALID_DISCOUNT_RATE", "discount rate must be positive and finite, got %v", rate)
	}
	return nil
}

// Factor is rate^period.
func Factor(rate float64, period int) float64 {
	return math.Pow(rate, float64(period))
}

// Apply discounts values (values[i] is period i+1) and accumulates the
// running sum in period order.
func Apply(values []float64, rate float64) []model.CashFlowPoint {
	points := make([]model.CashFlowPoint, len(values))
	var cumulative float64
	for i, v := range values {
		period := i + 1
		unit := v / Factor(rate, period)
		cumulative += unit
		points[i] = model.CashFlowPoint{
			Period:        period,
			RawValue:      v,
			UnitDCF:       unit,
			CumulativeDCF: cumulative,
		}
	}
	return points
}

// TerminalValue is the growing perpetuity last*growth/(rate-growth), valued
// at the last finite period. When rate equals growth the value is infinite
// and ErrDegenerateTerminalValue is returned with it.
func TerminalValue(last, rate, growth float64) (float64, error) {
	if math.Abs(rate-growth) < degenerateEpsilon {
		if last < 0 {
			return math.Inf(-1), calcerr.ErrDegenerateTerminalValue
		}
		return math.Inf(1), calcerr.ErrDegenerateTerminalValue
	}
	return last * growth / (rate - growth), nil
}

// Aggregate builds the full result. A degenerate terminal value is not
// fatal: the result is returned together with ErrDegenerateTerminalValue,
// with infinite terminal and total values. Any other non-finite figure, such
// as a discount factor that underflows over a long horizon, is an
// INVALID_INPUT error with no result.
func Aggregate(values []float64, rate, growth float64) (*model.ComputationResult, error) {
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}

	res := &model.ComputationResult{Series: Apply(values, rate)}
	for _, p := range res.Series {
		if !finite(p.UnitDCF) || !finite(p.CumulativeDCF) {
			return nil, outOfRange(rate, p.Period)
		}
	}
	last, ok := res.LastPoint()
	if !ok {
		return res, nil
	}

	tv, err := TerminalValue(last.RawValue, rate, growth)
	res.TerminalValue = tv
	res.TotalDCF = last.CumulativeDCF + tv/Factor(rate, last.Period)
	if err != nil {
		res.TerminalDegenerate = true
		return res, err
	}
	if !finite(tv) || !finite(res.TotalDCF) {
		return nil, outOfRange(rate, last.Period)
	}
	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// outOfRange reports a rate whose discount factor leaves the float64 range
// before the end of the horizon.
func outOfRange(rate float64, period int) error {
	return calcerr.Invalid("DISCOUNT_OUT_OF_RANGE",
		"discount rate %v produces non-finite discounted values by period %d", rate, period).
		WithContext("period", period)
}
