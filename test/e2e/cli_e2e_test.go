package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and exercises it end to end.
func TestCLI_E2E(t *testing.T) {
	tmpDir := t.TempDir()
	binName := "fibgrade"
	if runtime.GOOS == "windows" {
		binName = "fibgrade.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	build := exec.Command("go", "build", "-o", binPath, "./cmd/fibgrade")
	build.Dir = "../.."
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to build fibgrade: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Demo grading",
			args:     []string{"-quiet", "-profile-max", "12"},
			wantOut:  "check summary",
			wantCode: 0,
		},
		{
			name:     "Demo sequence",
			args:     []string{"-n", "8", "-algo", "iter", "-no-color", "-profile-max", "12"},
			wantOut:  "0 1 1 2 3 5 8 13",
			wantCode: 0,
		},
		{
			name:     "Check mode",
			args:     []string{"-quiet", "-algo", "iter", "-profile-max", "12", "check"},
			wantOut:  "fib-iterative",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "fibgrade",
			wantCode: 0,
		},
		{
			name:     "Completion",
			args:     []string{"-completion", "bash"},
			wantOut:  "_fibgrade",
			wantCode: 0,
		},
		{
			name:     "Unknown mode",
			args:     []string{"conquer"},
			wantOut:  "unknown mode",
			wantCode: 4,
		},
		{
			name:     "Unknown calculator",
			args:     []string{"-quiet", "-algo", "warp"},
			wantOut:  "unknown calculator",
			wantCode: 4,
		},
		{
			name:     "Very short timeout",
			args:     []string{"-quiet", "-timeout", "1ns"},
			wantOut:  "",
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-cache-dir", t.TempDir()}, tt.args...)
			if tt.name == "Help" || tt.name == "Version Flag" {
				args = tt.args
			}
			cmd := exec.Command(binPath, args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()

			outStr := string(output)

			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("Command failed unexpectedly: %v\nOutput: %s", err, outStr)
				}
			} else {
				if err == nil {
					t.Errorf("Expected exit code %d, but command succeeded.\nOutput: %s", tt.wantCode, outStr)
				} else if exitErr, ok := err.(*exec.ExitError); ok {
					if exitErr.ExitCode() != tt.wantCode {
						t.Errorf("Exit code = %d, want %d\nOutput: %s", exitErr.ExitCode(), tt.wantCode, outStr)
					}
				}
			}

			if tt.wantOut != "" {
				if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
					t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
				}
			}
		})
	}
}

// TestCLI_E2E_Report verifies the JSON report is written to disk.
func TestCLI_E2E_Report(t *testing.T) {
	tmpDir := t.TempDir()
	binPath := filepath.Join(tmpDir, "fibgrade")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	build := exec.Command("go", "build", "-o", binPath, "./cmd/fibgrade")
	build.Dir = "../.."
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build fibgrade: %v\n%s", err, out)
	}

	reportPath := filepath.Join(tmpDir, "report.json")
	cmd := exec.Command(binPath, "-quiet", "-algo", "iter", "-profile-max", "12",
		"-cache-dir", t.TempDir(), "-o", reportPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Command failed: %v\n%s", err, out)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if !strings.Contains(string(data), `"correct": true`) {
		t.Errorf("report should mark the submission correct, got:\n%s", data)
	}
}
