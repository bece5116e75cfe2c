package datahub

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"invalid config", ErrInvalidConfig, ExitGeneralError},
		{"wrapped invalid record", fmt.Errorf("product 42: %w", ErrInvalidRecord), ExitGeneralError},
		{"transport", fmt.Errorf("offset 400: %w", ErrTransportFailed), ExitGeneralError},
		{"unclassified", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidConfig,
		ErrInvalidInput,
		ErrInvalidRecord,
		ErrTransportFailed,
		ErrConnectionFailed,
		ErrExecutionFailed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestJoinErrors_SingleLine(t *testing.T) {
	a := fmt.Errorf("endpoint is required: %w", ErrInvalidConfig)
	b := fmt.Errorf("page size must be positive: %w", ErrInvalidInput)

	err := JoinErrors(nil, a, b)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "endpoint is required: invalid configuration; page size must be positive: invalid input"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidInput) {
		t.Errorf("joined error should match every wrapped sentinel, got %v", err)
	}
}

func TestJoinErrors_AllNil(t *testing.T) {
	if err := JoinErrors(nil, nil); err != nil {
		t.Errorf("JoinErrors(nil, nil) = %v, want nil", err)
	}
	if err := JoinErrors(); err != nil {
		t.Errorf("JoinErrors() = %v, want nil", err)
	}
}
