package leave

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorIs(t *testing.T) {
	err := fmt.Errorf("create failed: %w", &ValidationError{Field: "reason", Reason: "is required"})

	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected wrapped ValidationError to match ErrValidation")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatal("expected errors.As to recover *ValidationError")
	}
	if vErr.Field != "reason" {
		t.Fatalf("Field = %q, want %q", vErr.Field, "reason")
	}
}

func TestInsufficientBalanceErrorIs(t *testing.T) {
	err := &InsufficientBalanceError{Available: 2, Requested: 5}

	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatal("expected match against ErrInsufficientBalance")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatal("must not match ErrValidation")
	}
}

func TestUnauthorizedErrorIs(t *testing.T) {
	err := &UnauthorizedError{ManagerID: "m1", EmployeeID: "e1"}

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatal("expected match against ErrUnauthorized")
	}
}
