package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// TestConfigError tests ConfigError creation and message formatting.
func TestConfigError(t *testing.T) {
	t.Run("Error returns message", func(t *testing.T) {
		err := ConfigError{Message: "bad flag"}
		if err.Error() != "bad flag" {
			t.Errorf("Error() = %q, want %q", err.Error(), "bad flag")
		}
	})

	t.Run("NewConfigError formats message", func(t *testing.T) {
		err := NewConfigError("invalid value %d for %s", 42, "terms")
		want := "invalid value 42 for terms"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("errors.As recognizes ConfigError", func(t *testing.T) {
		err := NewConfigError("oops")
		var configErr ConfigError
		if !errors.As(err, &configErr) {
			t.Error("errors.As should recognize ConfigError")
		}
	})
}

// TestCheckError tests CheckError wrapping and unwrapping.
func TestCheckError(t *testing.T) {
	cause := errors.New("annotation unsatisfied")
	err := CheckError{Reference: "fib-linear", Cause: cause}

	t.Run("Error names the reference", func(t *testing.T) {
		want := `check "fib-linear" failed: annotation unsatisfied`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find the wrapped cause")
		}
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", err)
		var checkErr CheckError
		if !errors.As(wrapped, &checkErr) {
			t.Fatal("errors.As should recognize CheckError through wrapping")
		}
		if checkErr.Reference != "fib-linear" {
			t.Errorf("Reference = %q, want %q", checkErr.Reference, "fib-linear")
		}
	})
}

// TestTimeoutError tests the timeout error message.
func TestTimeoutError(t *testing.T) {
	err := TimeoutError{Operation: "check", Limit: 5 * time.Second}
	want := `operation "check" timed out after 5s`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestValidationError tests the validation error message.
func TestValidationError(t *testing.T) {
	err := ValidationError{Field: "n", Message: "must be non-negative"}
	want := `validation error for "n": must be non-negative`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestWrapError tests error wrapping behavior.
func TestWrapError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if WrapError(nil, "context") != nil {
			t.Error("WrapError(nil) should return nil")
		}
	})

	t.Run("wraps with context message", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapError(cause, "loading reference %q", "fib.json")
		want := `loading reference "fib.json": boom`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, cause) {
			t.Error("wrapped error should match cause with errors.Is")
		}
	})
}

// TestIsContextError tests context error detection.
func TestIsContextError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped canceled", fmt.Errorf("run: %w", context.Canceled), true},
		{"other error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestExitCodeForError tests the error-to-exit-code mapping.
func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "n", Message: "negative"}, ExitErrorConfig},
		{"timeout type", TimeoutError{Operation: "op", Limit: time.Second}, ExitErrorTimeout},
		{"check", CheckError{Reference: "r", Cause: errors.New("x")}, ExitErrorCheckFailed},
		{"generic", errors.New("boom"), ExitErrorGeneric},
		{"wrapped check", fmt.Errorf("outer: %w", CheckError{Reference: "r", Cause: errors.New("x")}), ExitErrorCheckFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError() = %d, want %d", got, tt.want)
			}
		})
	}
}
