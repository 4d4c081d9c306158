package errors

import "fmt"

// Error codes attached to normalized errors.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeParse      = "PARSE_ERROR"
)

// APIError represents a standardized error across all remote APIs. It carries
// enough to build a user-facing diagnostic without the raw transport stack.
type APIError struct {
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	ErrorCode  string                 `json:"errorCode,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// New constructs an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		Message:    message,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

// HTTPError is raised by the generic REST transport on a non-2xx response.
// Its message is a fixed contract other layers pattern-match on.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func firstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}
