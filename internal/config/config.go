// Package config defines the application configuration and its resolution
// chain: CLI flags take priority over environment variables, which take
// priority over defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/reference"
)

// EnvPrefix is prepended to every environment variable the application
// reads.
const EnvPrefix = "FIBGRADE_"

// Application modes.
const (
	ModeDemo  = "demo"
	ModeCheck = "check"
	ModeServe = "serve"
	ModeREPL  = "repl"
	ModeTUI   = "tui"
)

// Defaults.
const (
	DefaultN          = 10
	DefaultProfileMax = 30
	DefaultTimeout    = 5 * time.Minute
	DefaultAddr       = ":8080"
	DefaultAlgo       = "all"
	DefaultRefs       = "all"
	DefaultStudent    = "student"
	DefaultCacheDir   = "."
)

// AppConfig holds the complete runtime configuration.
type AppConfig struct {
	// Mode selects what the process does: demo, check, serve, repl or tui.
	Mode string

	// N is the number of sequence terms displayed in demo and repl modes.
	N int

	// ProfileMax is the largest index traced when profiling complexity.
	ProfileMax int

	// Algo selects the calculator(s) to trace: a factory key or "all".
	Algo string

	// Refs selects the references to check: a reference name or "all".
	Refs string

	// RefsFile, when set, loads references from a JSON file instead of
	// building the bundled Fibonacci references.
	RefsFile string

	// Student names the submission being graded.
	Student string

	// ReportFilter controls which references the detailed report shows.
	ReportFilter string

	// OutputFile, when set, receives the grading report as JSON.
	OutputFile string

	// CacheDir is the root under which footprints are cached.
	CacheDir string

	// Timeout bounds a whole grading run.
	Timeout time.Duration

	// Addr is the listen address for serve mode.
	Addr string

	// Quiet suppresses progress display.
	Quiet bool

	// Verbose enables diagnostic logging and memory statistics.
	Verbose bool

	// NoColor disables ANSI colors in terminal output.
	NoColor bool

	// Completion, when set, prints a shell completion script and exits.
	Completion string
}

// ParseConfig builds the configuration from command-line arguments and
// the environment.
//
// Parameters:
//   - args: the raw arguments, without the program name.
//   - output: the writer for flag parse diagnostics and usage text.
//
// Returns:
//   - AppConfig: the resolved configuration.
//   - error: a parse or validation failure. flag.ErrHelp is returned
//     unwrapped so callers can treat -h specially.
func ParseConfig(args []string, output io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Mode:         ModeDemo,
		N:            DefaultN,
		ProfileMax:   DefaultProfileMax,
		Algo:         DefaultAlgo,
		Refs:         DefaultRefs,
		Student:      DefaultStudent,
		ReportFilter: string(reference.ReportAll),
		CacheDir:     DefaultCacheDir,
		Timeout:      DefaultTimeout,
		Addr:         DefaultAddr,
	}

	fs := flag.NewFlagSet("fibgrade", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.N, "n", cfg.N, "Number of sequence terms to display")
	fs.IntVar(&cfg.ProfileMax, "profile-max", cfg.ProfileMax, "Largest index traced for complexity profiling")
	fs.StringVar(&cfg.Algo, "algo", cfg.Algo, "Calculator to trace: memo, iter, naive or all")
	fs.StringVar(&cfg.Refs, "refs", cfg.Refs, "Reference to check: a name or all")
	fs.StringVar(&cfg.RefsFile, "refs-file", cfg.RefsFile, "Load references from a JSON file")
	fs.StringVar(&cfg.Student, "student", cfg.Student, "Name of the graded submission")
	fs.StringVar(&cfg.ReportFilter, "report", cfg.ReportFilter, "Report filter: all, satisfied or unsatisfied")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Write the grading report to a JSON file")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Write the grading report to a JSON file (shorthand)")
	fs.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "Root directory for the footprint cache")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Global timeout for the grading run")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address for serve mode")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Suppress progress display")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Suppress progress display (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable diagnostic logging")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Enable diagnostic logging (shorthand)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable ANSI colors")
	fs.StringVar(&cfg.Completion, "completion", cfg.Completion, "Print a completion script for the given shell (bash, zsh, fish)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	applyEnvOverrides(&cfg, fs)

	if mode := fs.Arg(0); mode != "" {
		cfg.Mode = mode
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency and value ranges.
func (c AppConfig) Validate() error {
	switch c.Mode {
	case ModeDemo, ModeCheck, ModeServe, ModeREPL, ModeTUI:
	default:
		return apperrors.ConfigError{Message: fmt.Sprintf("unknown mode %q (expected demo, check, serve, repl or tui)", c.Mode)}
	}

	if c.N < 0 {
		return apperrors.ConfigError{Message: "n must not be negative"}
	}
	if c.N > fib.MaxIndex {
		return apperrors.ConfigError{Message: fmt.Sprintf("n exceeds the maximum supported index %d", fib.MaxIndex)}
	}
	if c.ProfileMax < 2 {
		return apperrors.ConfigError{Message: "profile-max must be at least 2 to fit a complexity class"}
	}
	if c.ProfileMax > fib.MaxIndex {
		return apperrors.ConfigError{Message: fmt.Sprintf("profile-max exceeds the maximum supported index %d", fib.MaxIndex)}
	}

	switch reference.ReportFilter(c.ReportFilter) {
	case reference.ReportAll, reference.ReportSatisfied, reference.ReportUnsatisfied:
	default:
		return apperrors.ConfigError{Message: fmt.Sprintf("unknown report filter %q", c.ReportFilter)}
	}

	if c.Timeout <= 0 {
		return apperrors.ConfigError{Message: "timeout must be positive"}
	}
	if c.Mode == ModeServe && c.Addr == "" {
		return apperrors.ConfigError{Message: "serve mode requires a listen address"}
	}
	return nil
}

// Filter returns the report filter as its typed form.
func (c AppConfig) Filter() reference.ReportFilter {
	return reference.ReportFilter(c.ReportFilter)
}
