package testutil

import (
	"errors"
	"testing"

	apperrors "ally/internal/errors"
)

// AssertAppError checks that err carries the expected application error code,
// e.g. EXPENSE_NOT_FOUND from an owner-scoped lookup or ALLOCATION_SUM from a
// budget update.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError with code %q, got %T: %v", expectedCode, err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
