// Package domain holds the error taxonomy shared by the search components.
package domain

import (
	"errors"
	"fmt"
)

// ErrorType classifies domain errors so transports can map them to responses.
type ErrorType string

const (
	// ErrorTypeValidation means the caller sent bad input. Never retried.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeData means the inventory or vocabulary is missing or malformed.
	ErrorTypeData       ErrorType = "data"
	ErrorTypeExtraction ErrorType = "extraction"
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
)

// Sentinel errors. Wrap them with the constructors below to add context.
var (
	ErrEmptyQuery           = errors.New("query is required")
	ErrInventoryUnavailable = errors.New("inventory not loaded")
	ErrInvalidSnapshot      = errors.New("invalid inventory snapshot")
	ErrVocabularyMissing    = errors.New("vocabulary not available")
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func DataError(message string, err error) *DomainError {
	return NewError(ErrorTypeData, message, err)
}

func ExtractionError(message string, err error) *DomainError {
	return NewError(ErrorTypeExtraction, message, err)
}

func UpstreamError(message string, err error) *DomainError {
	return NewError(ErrorTypeUpstream, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// TypeOf returns the type of the first DomainError in err's chain, or ""
// when there is none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ""
}

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation || errors.Is(err, ErrEmptyQuery)
}

// IsUnavailable reports whether err means the service has no data to answer with.
func IsUnavailable(err error) bool {
	return TypeOf(err) == ErrorTypeData || errors.Is(err, ErrInventoryUnavailable)
}
