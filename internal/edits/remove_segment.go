package edits

import (
	"fmt"

	"dcf-engine/internal/model"
)

type removeSegmentProps struct {
	Index *int `json:"index"`
}

// RemoveSegmentHandler removes a finite segment, by default the last one.
type RemoveSegmentHandler struct{}

func (h *RemoveSegmentHandler) Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props removeSegmentProps
	if msgs := decodeProps(edit, &props); msgs != nil {
		return msgs
	}

	if m.FiniteCount() <= 1 {
		return critical("LAST_FINITE_SEGMENT", "A model needs at least one finite segment")
	}
	if props.Index == nil {
		return nil
	}
	i := *props.Index
	if i < 0 || i >= len(m.Segments) {
		return critical("SEGMENT_NOT_FOUND", fmt.Sprintf("No segment at index %d", i))
	}
	if m.Segments[i].IsTerminal() {
		return critical("TERMINAL_SEGMENT", "The terminal segment cannot be removed")
	}
	return nil
}

func (h *RemoveSegmentHandler) Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage {
	var props removeSegmentProps
	decodeProps(edit, &props)

	i := -1
	if props.Index != nil {
		i = *props.Index
	} else {
		for j := len(m.Segments) - 1; j >= 0; j-- {
			if !m.Segments[j].IsTerminal() {
				i = j
				break
			}
		}
	}
	if i < 0 {
		return nil
	}
	m.Segments = append(m.Segments[:i], m.Segments[i+1:]...)
	return nil
}
