// Package apierror provides standardized error response structures for the
// local cashier API. All errors returned to the UI go through this package to
// ensure consistency and to prevent leaking internal details (stack traces,
// DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors. Checkout preconditions are
// checked independently and reported together, so the UI can highlight every
// missing input at once.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// Error implements the error interface so a ValidationError can travel
// through service layers as a plain error and be unwrapped at the handler.
func (v *ValidationError) Error() string {
	msg := v.Detail
	for field, reason := range v.Fields {
		msg += "; " + field + ": " + reason
	}
	return msg
}
