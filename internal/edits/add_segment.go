package edits

import (
	"fmt"

	"dcf-engine/internal/model"
	"dcf-engine/internal/segment"
)

type addSegmentProps struct {
	EndPeriod  *int       `json:"end_period"`
	Kind       model.Kind `json:"kind"`
	Expression string     `json:"expression"`
}

// AddSegmentHandler appends a finite segment after the last finite one. An
// omitted end period extends the model by one period.
type AddSegmentHandler struct{}

func (h *AddSegmentHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props addSegmentProps
	if msgs := decodeProps(edit, &props); msgs != nil {
		return msgs
	}

	if !props.Kind.Valid() {
		return critical("INVALID_KIND", fmt.Sprintf("Unknown segment kind %q", props.Kind))
	}

	lower, _ := finiteBounds(m, insertIndex(m))
	if props.EndPeriod == nil && lower >= segment.MaxPeriods {
		return critical("INVALID_END_PERIOD", fmt.Sprintf("The model already ends at period %d", segment.MaxPeriods))
	}
	if props.EndPeriod != nil && *props.EndPeriod > segment.MaxPeriods {
		return critical("INVALID_END_PERIOD",
			fmt.Sprintf("End period %d exceeds the maximum of %d", *props.EndPeriod, segment.MaxPeriods))
	}
	if props.EndPeriod != nil && *props.EndPeriod <= lower {
		return critical("INVALID_END_PERIOD",
			fmt.Sprintf("End period %d must be greater than the previous end period %d", *props.EndPeriod, lower))
	}
	return nil
}

func (h *AddSegmentHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props addSegmentProps
	decodeProps(edit, &props)

	at := insertIndex(m)
	lower, _ := finiteBounds(m, at)
	end := lower + 1
	if props.EndPeriod != nil {
		end = *props.EndPeriod
	}
	expression := props.Expression
	if expression == "" {
		expression = "0"
	}

	seg := model.Finite(end, props.Kind, expression)
	m.Segments = append(m.Segments, model.Segment{})
	copy(m.Segments[at+1:], m.Segments[at:])
	m.Segments[at] = seg
	return nil
}

// insertIndex is where a new finite segment goes: just before the terminal
// segment, or at the end when there is none.
func insertIndex(m *model.Model) int {
	if i := terminalIndex(m); i >= 0 {
		return i
	}
	return len(m.Segments)
}
