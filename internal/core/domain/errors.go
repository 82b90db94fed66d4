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
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeResourceNotFound   = "RESOURCE_NOT_FOUND"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodePaymentInProgress  = "PAYMENT_IN_PROGRESS"
	ErrCodeAlreadyCompleted   = "ALREADY_COMPLETED"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeGatewayUnavailable = "GATEWAY_UNAVAILABLE"
	ErrCodeForbidden          = "FORBIDDEN"
)

func NewInvalidRequestError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidRequest,
		Message: message,
	}
}

func NewInvalidTransitionError(from, to ResourceStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewResourceNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeResourceNotFound,
		Message: fmt.Sprintf("resource %s not found", id),
	}
}

func NewPaymentInProgressError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentInProgress,
		Message: fmt.Sprintf("resource %s already has an active payment intent", id),
	}
}

func NewAlreadyCompletedError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAlreadyCompleted,
		Message: fmt.Sprintf("resource %s is already completed", id),
	}
}

func NewInvalidAmountError(amount int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount: %d", amount),
	}
}

func NewGatewayUnavailableError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeGatewayUnavailable,
		Message: "payment gateway unavailable",
		Err:     err,
	}
}

func NewForbiddenError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: fmt.Sprintf("resource %s does not belong to the caller", id),
	}
}

// IsErrorCode reports whether err carries the given domain error code.
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
