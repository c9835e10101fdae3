package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal          ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrFetchFailed       ErrorCode = "FETCH_FAILED"
	ErrGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrPersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrQuizNotFound      ErrorCode = "QUIZ_NOT_FOUND"
)

// User-facing messages. The frontend matches on these strings.
const (
	MsgURLRequired        = "URL is required"
	MsgInvalidBody        = "Invalid request body"
	MsgFetchFailed        = "Failed to scrape Wikipedia article"
	MsgGenerationFailed   = "LLM generation failed"
	MsgHistoryFetchFailed = "Failed to fetch history"
	MsgQuizNotFound       = "Quiz not found"
	MsgQuizFetchFailed    = "Failed to fetch quiz"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewFetchError(err error) *DomainError {
	return NewError(ErrFetchFailed, MsgFetchFailed, err)
}

func NewGenerationError(err error) *DomainError {
	return NewError(ErrGenerationFailed, MsgGenerationFailed, err)
}

func NewPersistenceError(message string, err error) *DomainError {
	return NewError(ErrPersistenceFailed, message, err)
}

func NewQuizNotFoundError() *DomainError {
	return NewError(ErrQuizNotFound, MsgQuizNotFound, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// CodeOf returns the code of the first DomainError in err's chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrInternal
}

// ParseError reports an LLM reply that does not contain well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "invalid JSON returned by LLM"
	}
	return fmt.Sprintf("invalid JSON returned by LLM: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports an LLM reply whose structure violates the quiz schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("LLM response validation failed: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
