package model

// CalculationMessage is a diagnostic attached to a calculation. CRITICAL
// messages abort the calculation; WARNING messages accompany a result.
type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)
