package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/fibgrade/internal/cli"
	"github.com/agbru/fibgrade/internal/config"
	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/logging"
	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/server"
	"github.com/agbru/fibgrade/internal/ui"
)

// Application represents the fibgrade application instance.
type Application struct {
	Config    config.AppConfig
	Factory   fib.Factory
	ErrWriter io.Writer

	logger logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom calculator Factory for the application.
func WithFactory(f fib.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
//
// Parameters:
//   - args: The raw command-line arguments, without the program name.
//   - errWriter: The writer for diagnostics and usage text.
//   - opts: Optional application overrides.
//
// Returns:
//   - *Application: The configured application.
//   - error: A parse or validation failure. flag.ErrHelp is returned
//     unwrapped so callers can treat -h specially.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = fib.NewDefaultFactory()
	}

	cfg, err := config.ParseConfig(args, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	level := zerolog.InfoLevel
	if a.Config.Verbose {
		level = zerolog.DebugLevel
	}
	if a.Config.Quiet {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	ui.InitTheme(a.Config.NoColor)
	a.logger = logging.NewLogger(a.ErrWriter, "fibgrade")

	switch a.Config.Mode {
	case config.ModeServe:
		return a.runServe(ctx)
	case config.ModeREPL:
		return a.runREPL(out)
	case config.ModeTUI:
		return a.runTUI(ctx)
	case config.ModeCheck:
		return a.runCheck(ctx, out)
	default:
		return a.runDemo(ctx, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServe starts the HTTP grading service and blocks until the context
// is cancelled or the listener fails.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	refs, err := a.loadReferences(a.profiledKeys())
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error loading references: %v\n", err)
		return apperrors.ExitCodeForError(err)
	}
	selected := orchestration.SelectReferences(a.Config.Refs, refs)
	if len(selected) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no reference matches %q\n", a.Config.Refs)
		return apperrors.ExitErrorConfig
	}

	srv := server.New(a.Config, a.Factory, selected, a.logger)
	if err := srv.Run(ctx); err != nil {
		a.logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive grading session.
func (a *Application) runREPL(out io.Writer) int {
	refs, err := a.loadReferences(a.profiledKeys())
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error loading references: %v\n", err)
		return apperrors.ExitCodeForError(err)
	}

	registry := make(map[string]fib.Calculator)
	for _, key := range a.Factory.List() {
		if calc, ok := a.Factory.Get(key); ok {
			registry[key] = calc
		}
	}

	repl := cli.NewREPL(registry, orchestration.SelectReferences(a.Config.Refs, refs), cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		ProfileMax:  a.Config.ProfileMax,
	})
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runTUI traces the submission and launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	tasks, code := a.prepareTasks(ctx, io.Discard)
	if code != apperrors.ExitSuccess {
		return code
	}
	return runDashboard(ctx, tasks, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
