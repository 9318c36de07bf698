// Package calcerr defines the typed errors surfaced by the calculation core.
package calcerr

import (
	"errors"
	"fmt"
)

// Type identifies the category of error.
type Type string

const (
	// TypeInvalidInput covers malformed models: bad period ordering, missing segments,
	// non-positive rates or step sizes.
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeDegenerateTerminal is reported when the perpetuity formula divides by zero.
	// It is non-fatal; a result accompanies it.
	TypeDegenerateTerminal Type = "DEGENERATE_TERMINAL_VALUE"
)

// Error is a core error with a machine-readable code and optional context.
type Error struct {
	Type    Type           `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Type, so sentinels compare by category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && (t.Code == "" || t.Code == e.Code)
}

// WithContext attaches a key/value pair describing where the error arose.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

var (
	// ErrInvalidInput matches every INVALID_INPUT error.
	ErrInvalidInput = &Error{Type: TypeInvalidInput}

	// ErrDegenerateTerminalValue matches the discount rate == growth case.
	ErrDegenerateTerminalValue = &Error{
		Type:    TypeDegenerateTerminal,
		Code:    "DEGENERATE_TERMINAL_VALUE",
		Message: "discount rate equals terminal growth factor",
	}
)

// Invalid creates an INVALID_INPUT error with a specific code.
func Invalid(code, format string, args ...any) *Error {
	return &Error{
		Type:    TypeInvalidInput,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps cause as an INVALID_INPUT error.
func Wrap(code, message string, cause error) *Error {
	return &Error{
		Type:    TypeInvalidInput,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err (or anything it wraps) is a *Error of type t.
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
