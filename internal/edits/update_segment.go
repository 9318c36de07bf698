package edits

import (
	"fmt"

	"dcf-engine/internal/model"
	"dcf-engine/internal/segment"
)

type updateSegmentProps struct {
	Index      int         `json:"index"`
	EndPeriod  *int        `json:"end_period"`
	Kind       *model.Kind `json:"kind"`
	Expression *string     `json:"expression"`
}

// UpdateSegmentHandler changes the end period, kind or expression of a
// finite segment. Properties left out keep their current value.
type UpdateSegmentHandler struct{}

func (h *UpdateSegmentHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props updateSegmentProps
	if msgs := decodeProps(edit, &props); msgs != nil {
		return msgs
	}

	if props.Index < 0 || props.Index >= len(m.Segments) {
		return critical("SEGMENT_NOT_FOUND", fmt.Sprintf("No segment at index %d", props.Index))
	}
	if m.Segments[props.Index].IsTerminal() {
		return critical("TERMINAL_SEGMENT", "Use set_terminal_growth to change the terminal segment")
	}
	if props.Kind != nil && !props.Kind.Valid() {
		return critical("INVALID_KIND", fmt.Sprintf("Unknown segment kind %q", *props.Kind))
	}

	if props.EndPeriod != nil {
		end := *props.EndPeriod
		lower, upper := finiteBounds(m, props.Index)
		if end > segment.MaxPeriods {
			return critical("INVALID_END_PERIOD",
				fmt.Sprintf("End period %d exceeds the maximum of %d", end, segment.MaxPeriods))
		}
		if end <= lower || (upper >= 0 && end >= upper) {
			return critical("INVALID_END_PERIOD",
				fmt.Sprintf("End period %d must lie strictly between its neighbours", end))
		}
	}

	var msgs []model.CalculationMessage
	if props.Kind != nil && props.Expression == nil && *props.Kind == model.KindConstant {
		msgs = append(msgs, warning("KIND_CHANGED",
			fmt.Sprintf("Segment %d keeps expression %q as a constant", props.Index, m.Segments[props.Index].Expression)))
	}
	return msgs
}

func (h *UpdateSegmentHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props updateSegmentProps
	decodeProps(edit, &props)

	seg := &m.Segments[props.Index]
	if props.EndPeriod != nil {
		seg.EndPeriod = model.Period(*props.EndPeriod)
	}
	if props.Kind != nil {
		seg.Kind = *props.Kind
	}
	if props.Expression != nil {
		seg.Expression = *props.Expression
	}
	return nil
}
