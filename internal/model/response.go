package model

import "dcf-engine/internal/jsonpatch"

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	TenantID               string `json:"tenant_id,omitempty"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages []CalculationMessage `json:"messages"`
	Edits    []ProcessedEdit      `json:"edits"`
	// Model is the model after every applied edit; ModelPatch transforms the
	// request model into it.
	Model      Model              `json:"model"`
	ModelPatch []jsonpatch.Op     `json:"model_patch"`
	Result     *ComputationResult `json:"result"`
}

type ProcessedEdit struct {
	Edit                      Edit  `json:"edit"`
	CalculationMessageIndexes []int `json:"calculation_message_indexes,omitempty"`
}

// EvaluateResponse is the answer to an EvaluateRequest.
type EvaluateResponse struct {
	Value      float64 `json:"value"`
	Kind       Kind    `json:"kind"`
	Exact      bool    `json:"exact"`
	ParseError string  `json:"parse_error,omitempty"`
}

// SessionResponse is returned by the session endpoint.
type SessionResponse struct {
	SessionID  string               `json:"session_id"`
	Recomputed bool                 `json:"recomputed"`
	Changes    []jsonpatch.Op       `json:"changes"`
	Messages   []CalculationMessage `json:"messages"`
	Result     *ComputationResult   `json:"result"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
