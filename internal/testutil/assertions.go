package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "bookkeeper/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertErrorKind checks that err classifies as the expected kind.
func AssertErrorKind(t *testing.T, err error, expected apperrors.Kind) {
	t.Helper()

	if got := apperrors.KindOf(err); got != expected {
		t.Errorf("expected error kind %q, got %q (err: %v)", expected, got, err)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares amounts numerically, so "15000" equals "15000.00".
func AssertDecimal(t *testing.T, expected string, got decimal.Decimal) {
	t.Helper()

	want := decimal.RequireFromString(expected)
	if !want.Equal(got) {
		t.Errorf("expected %s, got %s", want.StringFixed(2), got.StringFixed(2))
	}
}
