package errors

import (
	"fmt"
	"strings"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainValidationError indicates malformed input or a schema violation
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"

	// DomainBusinessRuleError indicates a structural invariant violation
	DomainBusinessRuleError DomainErrorType = "BUSINESS_RULE_ERROR"

	// DomainNotFoundError indicates a referenced entity does not exist
	DomainNotFoundError DomainErrorType = "NOT_FOUND"

	// DomainConflictError indicates a conflict with existing state
	DomainConflictError DomainErrorType = "CONFLICT"
)

// Machine-readable codes carried by results.
const (
	CodeDuplicateNodeID      = "DUPLICATE_NODE_ID"
	CodeDuplicateEdgeID      = "DUPLICATE_EDGE_ID"
	CodeNodeNotFound         = "NODE_NOT_FOUND"
	CodeEdgeNotFound         = "EDGE_NOT_FOUND"
	CodeUnresolvedEndpoint   = "UNRESOLVED_ENDPOINT"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeImmutableField       = "IMMUTABLE_FIELD"
	CodeUnknownNodeType      = "UNKNOWN_NODE_TYPE"
	CodeUnknownEdgeType      = "UNKNOWN_EDGE_TYPE"
	CodeInvalidVisibility    = "INVALID_VISIBILITY"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeInvalidSourceType    = "INVALID_SOURCE_TYPE"
	CodeInvalidTargetType    = "INVALID_TARGET_TYPE"
	CodeIsolatedNode         = "ISOLATED_NODE"
	CodeInvalidPayload       = "INVALID_PAYLOAD"
	CodeInvariantViolation   = "INVARIANT_VIOLATION"
	CodeBatchItemFailed      = "BATCH_ITEM_FAILED"
	CodeHookRejected         = "HOOK_REJECTED"
	CodeFieldValidation      = "FIELD_VALIDATION_ERROR"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type      DomainErrorType        `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Retryable bool                   `json:"retryable"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf is NewDomainError with a formatted message.
func Newf(errorType DomainErrorType, code string, format string, args ...interface{}) *DomainError {
	return NewDomainError(errorType, code, fmt.Sprintf(format, args...))
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// Is checks if the error is of a specific type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*DomainError, 0),
	}
}

// Add adds a validation error for a field
func (v *ValidationErrors) Add(field string, message string) {
	err := NewDomainError(DomainValidationError, CodeFieldValidation, message).
		WithDetail("field", field)
	v.Errors = append(v.Errors, err)
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// ToMap converts validation errors to a map keyed by field
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)

	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}

	return result
}
