package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/fibgrade/internal/config"
	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
)

// newTestApp builds an application from args with diagnostics discarded.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	a, err := New(args, io.Discard)
	if err != nil {
		t.Fatalf("New(%v) failed: %v", args, err)
	}
	return a
}

// demoArgs returns the common fast-run arguments for grading tests.
func demoArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	args := []string{"-quiet", "-profile-max", "12", "-cache-dir", t.TempDir()}
	return append(args, extra...)
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		a := newTestApp(t)
		if a.Config.Mode != config.ModeDemo {
			t.Errorf("Mode = %q, want %q", a.Config.Mode, config.ModeDemo)
		}
		if a.Factory == nil {
			t.Error("Factory should default to the standard registry")
		}
	})

	t.Run("Flags and mode argument", func(t *testing.T) {
		a := newTestApp(t, "-n", "5", "-profile-max", "20", "check")
		if a.Config.N != 5 {
			t.Errorf("N = %d, want 5", a.Config.N)
		}
		if a.Config.ProfileMax != 20 {
			t.Errorf("ProfileMax = %d, want 20", a.Config.ProfileMax)
		}
		if a.Config.Mode != config.ModeCheck {
			t.Errorf("Mode = %q, want %q", a.Config.Mode, config.ModeCheck)
		}
	})

	t.Run("Invalid mode", func(t *testing.T) {
		if _, err := New([]string{"conquer"}, io.Discard); err == nil {
			t.Error("expected an error for an unknown mode")
		}
	})

	t.Run("Invalid flag", func(t *testing.T) {
		if _, err := New([]string{"-bogus"}, io.Discard); err == nil {
			t.Error("expected an error for an unknown flag")
		}
	})
}

func TestIsHelpError(t *testing.T) {
	if !IsHelpError(flag.ErrHelp) {
		t.Error("flag.ErrHelp should be recognized")
	}
	if IsHelpError(errors.New("boom")) {
		t.Error("an arbitrary error should not be recognized")
	}
	if IsHelpError(nil) {
		t.Error("nil should not be recognized")
	}
}

func TestApplication_RunCompletion(t *testing.T) {
	a := newTestApp(t, "-completion", "bash")
	var out bytes.Buffer

	code := a.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out.String(), "complete -F _fibgrade fibgrade") {
		t.Error("output should contain the bash completion registration")
	}
}

func TestApplication_RunCompletion_UnsupportedShell(t *testing.T) {
	a := newTestApp(t, "-completion", "powershell")
	code := a.Run(context.Background(), io.Discard)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestApplication_RunDemo(t *testing.T) {
	a := newTestApp(t, demoArgs(t)...)
	var out bytes.Buffer

	code := a.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d (output: %s)", code, apperrors.ExitSuccess, out.String())
	}
	if !strings.Contains(out.String(), "Check Summary") {
		t.Error("output should contain the check summary table")
	}
	if !strings.Contains(out.String(), "fib-iterative") {
		t.Error("output should mention the iterative reference")
	}
}

func TestApplication_RunDemo_PrintsSequence(t *testing.T) {
	args := []string{"-n", "8", "-profile-max", "12", "-algo", "iter", "-no-color", "-cache-dir", t.TempDir()}
	a := newTestApp(t, args...)
	var out bytes.Buffer

	code := a.Run(context.Background(), &out)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d (output: %s)", code, apperrors.ExitSuccess, out.String())
	}
	if !strings.Contains(out.String(), "0 1 1 2 3 5 8 13") {
		t.Errorf("output should contain the first 8 terms, got:\n%s", out.String())
	}
}

func TestApplication_RunDemo_UnknownCalculator(t *testing.T) {
	a := newTestApp(t, demoArgs(t, "-algo", "warp")...)
	code := a.Run(context.Background(), io.Discard)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestApplication_RunDemo_UnknownReference(t *testing.T) {
	a := newTestApp(t, demoArgs(t, "-refs", "fib-imaginary")...)
	code := a.Run(context.Background(), io.Discard)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestApplication_RunDemo_WritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	a := newTestApp(t, demoArgs(t, "-algo", "iter", "-o", path)...)

	code := a.Run(context.Background(), io.Discard)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if correct, ok := doc["correct"].(bool); !ok || !correct {
		t.Errorf("report correct = %v, want true", doc["correct"])
	}
}

func TestApplication_RunCheck(t *testing.T) {
	t.Run("Fresh trace", func(t *testing.T) {
		cacheDir := t.TempDir()
		a := newTestApp(t, "-quiet", "-profile-max", "12", "-algo", "iter", "-cache-dir", cacheDir, "check")

		code := a.Run(context.Background(), io.Discard)

		if code != apperrors.ExitSuccess {
			t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}

		if _, ok, err := student.LoadFromCache(cacheDir, "student"); err != nil || !ok {
			t.Errorf("footprint should be cached after the run (ok=%v, err=%v)", ok, err)
		}
	})

	t.Run("Cached footprint replayed", func(t *testing.T) {
		cacheDir := t.TempDir()
		args := []string{"-quiet", "-profile-max", "12", "-algo", "iter", "-cache-dir", cacheDir, "check"}

		first := newTestApp(t, args...)
		if code := first.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
			t.Fatalf("first run exit code = %d", code)
		}

		second := newTestApp(t, args...)
		if code := second.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
			t.Errorf("replayed run exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
	})

	t.Run("References from file", func(t *testing.T) {
		refs, err := buildReferences([]string{"iter"}, 12)
		if err != nil {
			t.Fatalf("buildReferences failed: %v", err)
		}
		path := filepath.Join(t.TempDir(), "refs.json")
		if err := reference.Save(path, refs); err != nil {
			t.Fatalf("reference.Save failed: %v", err)
		}

		a := newTestApp(t, "-quiet", "-profile-max", "12", "-algo", "iter",
			"-refs-file", path, "-cache-dir", t.TempDir(), "check")

		code := a.Run(context.Background(), io.Discard)

		if code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
		}
	})

	t.Run("Missing refs file", func(t *testing.T) {
		a := newTestApp(t, demoArgs(t, "-refs-file", filepath.Join(t.TempDir(), "absent.json"), "check")...)
		code := a.Run(context.Background(), io.Discard)
		if code != apperrors.ExitErrorGeneric {
			t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
		}
	})
}

func TestApplication_RunTUI(t *testing.T) {
	var gotTasks []orchestration.CheckTask
	restore := runDashboard
	runDashboard = func(_ context.Context, tasks []orchestration.CheckTask, _ config.AppConfig, _ string) int {
		gotTasks = tasks
		return apperrors.ExitSuccess
	}
	defer func() { runDashboard = restore }()

	a := newTestApp(t, demoArgs(t, "tui")...)
	code := a.Run(context.Background(), io.Discard)

	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if len(gotTasks) != 3 {
		t.Errorf("tasks = %d, want one per bundled reference", len(gotTasks))
	}
}

func TestApplication_RunDemo_Timeout(t *testing.T) {
	a := newTestApp(t, demoArgs(t)...)
	a.Config.Timeout = time.Nanosecond

	code := a.Run(context.Background(), io.Discard)

	if code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
}
