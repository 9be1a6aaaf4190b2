package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidIdempotencyKey = "INVALID_IDEMPOTENCY_KEY"
	ErrCodeInvalidEmail          = "INVALID_EMAIL"
	ErrCodeMissingRequiredField  = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidStatusCode     = "INVALID_STATUS_CODE"
	ErrCodeDuplicateSubscriber   = "DUPLICATE_SUBSCRIBER"
	ErrCodeUnknownToken          = "UNKNOWN_TOKEN"
)

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidIdempotencyKeyError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidIdempotencyKey,
		Message: fmt.Sprintf("invalid idempotency key: %s", reason),
	}
}

func NewInvalidEmailError(email string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidEmail,
		Message: fmt.Sprintf("%q is not a valid subscriber email", email),
	}
}

func NewInvalidStatusCodeError(code int) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidStatusCode,
		Message: fmt.Sprintf("%d is not a valid HTTP status code", code),
	}
}

func NewDuplicateSubscriberError(email string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateSubscriber,
		Message: fmt.Sprintf("%s is already subscribed", email),
	}
}

func NewUnknownTokenError() *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownToken,
		Message: "there is no subscriber associated with the provided token",
	}
}

// IsErrorCode reports whether err is a DomainError carrying the given code.
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
