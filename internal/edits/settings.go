package edits

import (
	"fmt"
	"math"

	"dcf-engine/internal/model"
	"dcf-engine/internal/series"
)

type floatProps struct {
	Value *float64 `json:"value"`
}

type intProps struct {
	Value *int `json:"value"`
}

type stringProps struct {
	Value *string `json:"value"`
}

func decodeFloat(edit *model.Edit) (float64, []model.CalculationMessage) {
	var props floatProps
	if msgs := decodeProps(edit, &props); msgs != nil {
		return 0, msgs
	}
	if props.Value == nil {
		return 0, critical("MISSING_VALUE", fmt.Sprintf("%s requires a value", edit.EditName))
	}
	return *props.Value, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

type SetDiscountRateHandler struct{}

func (h *SetDiscountRateHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	rate, msgs := decodeFloat(edit)
	if msgs != nil {
		return msgs
	}
	if !positiveFinite(rate) {
		return critical("INVALID_DISCOUNT_RATE", fmt.Sprintf("Discount rate must be positive and finite, got %v", rate))
	}
	if term, ok := m.TerminalSegment(); ok && rate < term.Growth {
		msgs = append(msgs, warning("DISCOUNT_BELOW_GROWTH",
			fmt.Sprintf("Discount rate %v is below the terminal growth %v; the terminal value is negative", rate, term.Growth)))
	}
	return msgs
}

func (h *SetDiscountRateHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	m.DiscountRate, _ = decodeFloat(edit)
	return nil
}

// SetTerminalGrowthHandler sets the growth factor of the terminal segment,
// adding one when the model has none.
type SetTerminalGrowthHandler struct{}

func (h *SetTerminalGrowthHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	growth, msgs := decodeFloat(edit)
	if msgs != nil {
		return msgs
	}
	if math.IsNaN(growth) || math.IsInf(growth, 0) {
		return critical("INVALID_GROWTH", fmt.Sprintf("Terminal growth must be finite, got %v", growth))
	}
	return nil
}

func (h *SetTerminalGrowthHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	growth, _ := decodeFloat(edit)
	if i := terminalIndex(m); i >= 0 {
		m.Segments[i].Growth = growth
		return nil
	}
	m.Segments = append(m.Segments, model.Terminal(growth))
	return nil
}

type SetODEStepSizeHandler struct{}

func (h *SetODEStepSizeHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	step, msgs := decodeFloat(edit)
	if msgs != nil {
		return msgs
	}
	if !positiveFinite(step) {
		return critical("INVALID_STEP_SIZE", fmt.Sprintf("ODE step size must be positive and finite, got %v", step))
	}
	if step > 1 {
		msgs = append(msgs, warning("STEP_EXCEEDS_PERIOD",
			fmt.Sprintf("ODE step size %v is longer than a period; one step per period is used", step)))
	}
	return msgs
}

func (h *SetODEStepSizeHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	m.ODEStepSize, _ = decodeFloat(edit)
	return nil
}

type SetODEMethodHandler struct{}

func (h *SetODEMethodHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props stringProps
	if msgs := decodeProps(edit, &props); msgs != nil {
		return msgs
	}
	if props.Value == nil {
		return critical("MISSING_VALUE", "set_ode_method requires a value")
	}
	switch *props.Value {
	case "", model.MethodRK4, model.MethodDopri5:
		return nil
	}
	return critical("INVALID_METHOD", fmt.Sprintf("Unknown ODE method %q", *props.Value))
}

func (h *SetODEMethodHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props stringProps
	decodeProps(edit, &props)
	m.ODEMethod = *props.Value
	return nil
}

type SetPlotPeriodsHandler struct{}

func (h *SetPlotPeriodsHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props intProps
	if msgs := decodeProps(edit, &props); msgs != nil {
		return msgs
	}
	if props.Value == nil {
		return critical("MISSING_VALUE", "set_plot_periods requires a value")
	}
	if v := *props.Value; v < 0 || v > series.MaxPlotPeriods {
		return critical("INVALID_PLOT_PERIODS",
			fmt.Sprintf("Plot periods must be between 0 and %d, got %d", series.MaxPlotPeriods, v))
	}
	return nil
}

func (h *SetPlotPeriodsHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props intProps
	decodeProps(edit, &props)
	m.PlotPeriods = *props.Value
	return nil
}
