package leave

import (
	"errors"
	"fmt"
)

// Business failures the workflow reports to callers. Storage failures
// are never mapped onto these; they propagate wrapped so the transport
// layer can surface them as retryable.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("not authorized to decide this request")
	ErrInvalidState        = errors.New("request already decided")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrConflict            = errors.New("overlapping leave request")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type InsufficientBalanceError struct {
	Available int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: available %d, requested %d", e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

type UnauthorizedError struct {
	ManagerID  string
	EmployeeID string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("user %s is not the manager of employee %s", e.ManagerID, e.EmployeeID)
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}
