// Package report renders computation results as text tables.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"dcf-engine/internal/model"
)

// DefaultPlaces is the number of decimals shown for money amounts.
const DefaultPlaces int32 = 2

// Amount formats v rounded half away from zero to places decimals.
// decimal cannot represent infinities, so those are spelled out.
func Amount(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Write prints the per-period table, the terminal and total figures, the
// optional projection and any messages.
func Write(w io.Writer, res *model.ComputationResult, msgs []model.CalculationMessage, places int32) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "PERIOD\tCASH FLOW\tDISCOUNTED\tCUMULATIVE\t")
	if res != nil {
		for _, p := range res.Series {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", p.Period,
				Amount(p.RawValue, places), Amount(p.UnitDCF, places), Amount(p.CumulativeDCF, places))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Terminal value: %s\n", Amount(res.TerminalValue, places))
		fmt.Fprintf(w, "Total DCF:      %s\n", Amount(res.TotalDCF, places))

		if len(res.Projection) > 0 {
			fmt.Fprintln(w)
			pw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(pw, "PERIOD\tPROJECTED\t")
			for _, p := range res.Projection {
				fmt.Fprintf(pw, "%d\t%s\t\n", p.Period, Amount(p.RawValue, places))
			}
			if err := pw.Flush(); err != nil {
				return err
			}
		}
	}

	if len(msgs) > 0 {
		fmt.Fprintln(w)
		for _, m := range msgs {
			fmt.Fprintf(w, "%s %s: %s\n", m.Level, m.Code, m.Message)
		}
	}
	return nil
}
