// Package edits holds the named changes a caller can make to a model before
// it is computed: the actions of an interactive editor, replayable as data.
package edits

import "dcf-engine/internal/model"

// EditHandler is the contract every edit implements. Validate inspects the
// model without changing it; Apply is only called when Validate produced no
// CRITICAL message.
type EditHandler interface {
	Validate(m *model.Model, edit *model.Edit) []model.CalculationMessage
	Apply(m *model.Model, edit *model.Edit) []model.CalculationMessage
}
