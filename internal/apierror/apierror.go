// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erreur de validation", Fields: fields}
}

// ImportError reports a failed bulk import: every bad row is listed so the
// user can fix the file in one pass instead of resubmitting row by row.
type ImportError struct {
	Detail   string   `json:"detail"`
	Warnings []string `json:"warnings,omitempty"`
	Rows     []string `json:"rows"`
}

func NewImport(warnings, rows []string) *ImportError {
	return &ImportError{Detail: "Erreurs de validation", Warnings: warnings, Rows: rows}
}

// Error lets an ImportError travel through the service layer as a plain
// error; handlers unwrap it with errors.As to emit the full row report.
func (e *ImportError) Error() string { return e.Detail }
