// Package engine ties the calculation core together: it applies edits,
// generates and discounts the cash-flow series, and wraps the outcome in the
// calculation envelope returned by the service.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dcf-engine/internal/calcerr"
	"dcf-engine/internal/discount"
	"dcf-engine/internal/edits"
	"dcf-engine/internal/jsonpatch"
	"dcf-engine/internal/logging"
	"dcf-engine/internal/model"
	"dcf-engine/internal/series"
)

// GenerateAndDiscount computes the full result of m. Malformed models return
// an INVALID_INPUT error and no result. When the discount rate equals the
// terminal growth the result is returned together with
// calcerr.ErrDegenerateTerminalValue.
func GenerateAndDiscount(m model.Model, opts series.Options) (*model.ComputationResult, error) {
	res, _, err := compute(m, opts)
	return res, err
}

func compute(m model.Model, opts series.Options) (*model.ComputationResult, *series.Series, error) {
	if err := discount.ValidateRate(m.DiscountRate); err != nil {
		return nil, nil, err
	}
	s, err := series.Generate(m, opts)
	if err != nil {
		return nil, nil, err
	}
	res, err := discount.Aggregate(s.Values, m.DiscountRate, s.Growth)
	if res != nil {
		res.Projection = s.Projection
	}
	return res, s, err
}

// Process runs a calculation request with the default solver options.
func Process(req *model.CalculationRequest) *model.CalculationResponse {
	return ProcessWithOptions(req, series.DefaultOptions())
}

// ProcessWithOptions applies the request's edits in order, stopping at the
// first CRITICAL message, then computes the edited model. The request model
// is never modified.
func ProcessWithOptions(req *model.CalculationRequest, opts series.Options) *model.CalculationResponse {
	start := time.Now()
	calculationID := uuid.New().String()

	m := req.Model.Clone()
	var allMessages []model.CalculationMessage
	var processedEdits []model.ProcessedEdit
	outcome := model.OutcomeSuccess
	hasCritical := false

	addMessage := func(msg model.CalculationMessage) int {
		msg.ID = len(allMessages)
		allMessages = append(allMessages, msg)
		if msg.Level == model.LevelCritical {
			hasCritical = true
		}
		return msg.ID
	}

	for _, e := range req.Edits {
		handler, ok := edits.Get(e.EditName)
		if !ok {
			id := addMessage(model.CalculationMessage{
				Level:   model.LevelCritical,
				Code:    "UNKNOWN_EDIT",
				Message: fmt.Sprintf("Unknown edit: %s", e.EditName),
			})
			processedEdits = append(processedEdits, model.ProcessedEdit{
				Edit:                      e,
				CalculationMessageIndexes: []int{id},
			})
			break
		}

		var msgIndexes []int
		for _, vm := range handler.Validate(&m, &e) {
			msgIndexes = append(msgIndexes, addMessage(vm))
		}
		if !hasCritical {
			for _, am := range handler.Apply(&m, &e) {
				msgIndexes = append(msgIndexes, addMessage(am))
			}
		}
		processedEdits = append(processedEdits, model.ProcessedEdit{
			Edit:                      e,
			CalculationMessageIndexes: msgIndexes,
		})
		if hasCritical {
			break
		}
	}

	var result *model.ComputationResult
	if !hasCritical {
		var msgs []model.CalculationMessage
		result, msgs = Compute(m, opts)
		for _, msg := range msgs {
			addMessage(msg)
		}
	}
	if hasCritical {
		outcome = model.OutcomeFailure
		result = nil
	}

	patch, err := jsonpatch.Between(req.Model, m)
	if err != nil || patch == nil {
		patch = []jsonpatch.Op{}
	}
	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}
	if processedEdits == nil {
		processedEdits = []model.ProcessedEdit{}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	logging.L().Info("calculation completed",
		zap.String("calculation_id", calculationID),
		zap.String("tenant_id", req.TenantID),
		zap.String("outcome", outcome),
		zap.Int("edits", len(processedEdits)),
		zap.Int("messages", len(allMessages)),
		zap.Duration("duration", elapsed),
	)

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          calculationID,
			TenantID:               req.TenantID,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages:   allMessages,
			Edits:      processedEdits,
			Model:      m,
			ModelPatch: patch,
			Result:     result,
		},
	}
}

// Compute computes m and describes the outcome as calculation messages: a
// CRITICAL message for invalid input, WARNING messages for everything that
// was absorbed. The result is nil only when a CRITICAL message is returned.
func Compute(m model.Model, opts series.Options) (*model.ComputationResult, []model.CalculationMessage) {
	res, s, err := compute(m, opts)
	if err != nil && !errors.Is(err, calcerr.ErrDegenerateTerminalValue) {
		code := calcerr.CodeOf(err)
		if code == "" {
			code = string(calcerr.TypeInvalidInput)
		}
		return nil, []model.CalculationMessage{{
			Level:   model.LevelCritical,
			Code:    code,
			Message: err.Error(),
		}}
	}

	var msgs []model.CalculationMessage
	for _, d := range s.Diagnostics {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    d.Code,
			Message: d.Message,
		})
	}
	if err != nil {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    string(calcerr.TypeDegenerateTerminal),
			Message: fmt.Sprintf("Discount rate %v equals the terminal growth; terminal value is unbounded", m.DiscountRate),
		})
	}
	for _, p := range res.Series {
		if p.RawValue < 0 {
			msgs = append(msgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    "NEGATIVE_CASH_FLOW",
				Message: fmt.Sprintf("Cash flow is negative from period %d", p.Period),
			})
			break
		}
	}
	return res, msgs
}
