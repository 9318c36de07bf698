package edits

import (
	"fmt"

	json "github.com/goccy/go-json"

	"dcf-engine/internal/model"
)

// decodeProps unmarshals the edit properties into v. Missing properties
// leave v at its zero value.
func decodeProps(edit *model.Edit, v any) []model.CalculationMessage {
	if len(edit.Properties) == 0 {
		return nil
	}
	if err := json.Unmarshal(edit.Properties, v); err != nil {
		return critical("INVALID_PROPERTIES", fmt.Sprintf("Properties of %s cannot be read: %v", edit.EditName, err))
	}
	return nil
}

func critical(code, message string) []model.CalculationMessage {
	return []model.CalculationMessage{{
		Level:   model.LevelCritical,
		Code:    code,
		Message: message,
	}}
}

func warning(code, message string) model.CalculationMessage {
	return model.CalculationMessage{
		Level:   model.LevelWarning,
		Code:    code,
		Message: message,
	}
}

// finiteBounds returns the end periods of the finite segments just before and
// just after index i, ignoring i itself. Zero means there is no lower bound
// and -1 that there is no upper bound.
func finiteBounds(m *model.Model, i int) (lower, upper int) {
	upper = -1
	for j := i - 1; j >= 0; j-- {
		if s := m.Segments[j]; !s.IsTerminal() {
			lower = *s.EndPeriod
			break
		}
	}
	for j := i + 1; j < len(m.Segments); j++ {
		if s := m.Segments[j]; !s.IsTerminal() {
			upper = *s.EndPeriod
			break
		}
	}
	return lower, upper
}

// terminalIndex returns the position of the terminal segment, or -1.
func terminalIndex(m *model.Model) int {
	for i, s := range m.Segments {
		if s.IsTerminal() {
			return i
		}
	}
	return -1
}
