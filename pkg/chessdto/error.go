package chessdto

const (
	CodeNotFound     = "not_found"
	CodeInvalidInput = "invalid_input"
	CodeConflict     = "conflict"
	CodeInternal     = "internal"
)

// DomainError is the JSON error body returned by the API.
type DomainError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}
