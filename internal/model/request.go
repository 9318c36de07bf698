package model

import json "github.com/goccy/go-json"

// CalculationRequest carries a model and, optionally, edits to apply to it
// before computing.
type CalculationRequest struct {
	TenantID string `json:"tenant_id,omitempty"`
	Model    Model  `json:"model"`
	Edits    []Edit `json:"edits,omitempty"`
}

// Edit is one named change to a model, such as adding a segment or
// changing the discount rate.
type Edit struct {
	EditID     string          `json:"edit_id,omitempty"`
	EditName   string          `json:"edit_name"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// EvaluateRequest asks for a single expression value, for live preview.
type EvaluateRequest struct {
	Expression string  `json:"expression"`
	T          int     `json:"t"`
	Y          float64 `json:"y"`
}
