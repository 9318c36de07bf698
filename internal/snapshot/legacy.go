package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"dcf-engine/internal/model"
)

// Defaults of a fresh desktop-app state.
const (
	legacyGrowth   = 1.02
	legacyDiscount = 1.03
	legacyStep     = 0.01
)

type legacyRow struct {
	End  string `json:"end"`
	Expr string `json:"expr"`
}

// legacyState mirrors the desktop save file. Every number is a string because
// it is stored exactly as typed.
type legacyState struct {
	Rows        []legacyRow `json:"rows"`
	Growth      *string     `json:"growth"`
	Discount    *string     `json:"discount"`
	ODEStepSize *string     `json:"ode_step_size"`
	UseLogScale bool        `json:"use_log_scale"`
}

// DecodeLegacy imports a desktop save file. Missing fields take the app's
// defaults; fields that do not parse become 1 and end periods that do not
// parse become 0, as the app itself treated them. Segment kinds are left
// empty so they are inferred from each expression.
func DecodeLegacy(data []byte) (model.Model, error) {
	var st legacyState
	if err := json.Unmarshal(data, &st); err != nil {
		return model.Model{}, fmt.Errorf("decode legacy snapshot: %w", err)
	}

	m := model.Model{
		DiscountRate: legacyNumber(st.Discount, legacyDiscount),
		ODEStepSize:  legacyNumber(st.ODEStepSize, legacyStep),
	}
	for _, r := range st.Rows {
		end, err := strconv.Atoi(strings.TrimSpace(r.End))
		if err != nil || end < 0 {
			end = 0
		}
		m.Segments = append(m.Segments, model.Segment{
			EndPeriod:  model.Period(end),
			Expression: r.Expr,
		})
	}
	m.Segments = append(m.Segments, model.Terminal(legacyNumber(st.Growth, legacyGrowth)))
	return m, nil
}

func legacyNumber(s *string, def float64) float64 {
	if s == nil {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return 1
	}
	return v
}

// EncodeLegacy writes m as a desktop save file. Kinds are not representable
// there; the app infers them from the expression text.
func EncodeLegacy(m model.Model) ([]byte, error) {
	st := legacyState{
		Rows:        []legacyRow{},
		Discount:    legacyString(m.DiscountRate),
		ODEStepSize: legacyString(m.ODEStepSize),
	}
	growth := legacyGrowth
	for _, s := range m.Segments {
		if s.IsTerminal() {
			growth = s.Growth
			continue
		}
		st.Rows = append(st.Rows, legacyRow{End: strconv.Itoa(*s.EndPeriod), Expr: s.Expression})
	}
	st.Growth = legacyString(growth)
	return json.Marshal(st)
}

func legacyString(v float64) *string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return &s
}
