package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fibgrade/internal/fib"
	"github.com/agbru/fibgrade/internal/format"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
	"github.com/agbru/fibgrade/internal/trace"
	"github.com/agbru/fibgrade/internal/ui"
)

// REPLConfig holds configuration for the interactive session.
type REPLConfig struct {
	// DefaultAlgo is the calculator used for computations.
	DefaultAlgo string
	// Timeout bounds each computation.
	Timeout time.Duration
	// ProfileMax is the largest index traced by the check command.
	ProfileMax int
}

// REPL represents an interactive grading session.
type REPL struct {
	config      REPLConfig
	registry    map[string]fib.Calculator
	refs        []*reference.ReferenceImplementation
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - registry: Map of available calculators.
//   - refs: References the check command grades against.
//   - config: Session configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(registry map[string]fib.Calculator, refs []*reference.ReferenceImplementation, config REPLConfig) *REPL {
	currentAlgo := config.DefaultAlgo
	if _, ok := registry[currentAlgo]; !ok {
		// Pick the first available calculator as default
		names := make([]string, 0, len(registry))
		for name := range registry {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) > 0 {
			currentAlgo = names[0]
		}
	}

	return &REPL{
		config:      config,
		registry:    registry,
		refs:        refs,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive session. It continuously reads user input
// and processes commands until the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"fibgrade> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return // Exit command received
		}
	}
}

// printBanner displays the session welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s🎓 Fibonacci Grader - Interactive Mode%s                %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sfib <n>%s       - Compute F(n) with the current calculator\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %salgo <name>%s   - Change calculator (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.getAlgoList())
	fmt.Fprintf(r.out, "  %scheck%s         - Trace the current calculator and grade it\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s          - List available calculators\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s        - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s          - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s   - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// getAlgoList returns a comma-separated list of available calculators.
func (r *REPL) getAlgoList() string {
	algos := make([]string, 0, len(r.registry))
	for name := range r.registry {
		algos = append(algos, name)
	}
	sort.Strings(algos)
	return strings.Join(algos, ", ")
}

// processCommand parses and executes a user command.
// Returns false if the session should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "fib", "f":
		r.cmdFib(args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "check", "c":
		r.cmdCheck()
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// Try to interpret as a number for quick computation
		if n, err := strconv.Atoi(cmd); err == nil {
			r.compute(n)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}

	return true
}

// cmdFib handles the "fib" command.
func (r *REPL) cmdFib(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: fib <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}

	r.compute(n)
}

// compute runs the current calculator under a collector and shows the
// value together with the observed work.
func (r *REPL) compute(n int) {
	calc, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sCalculator not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Computing F(%s%d%s) with %s%s%s...\n",
		ui.ColorMagenta(), n, ui.ColorReset(),
		ui.ColorCyan(), calc.Name(), ui.ColorReset())

	collector := trace.NewCollector()
	start := time.Now()
	result, err := calc.Calculate(ctx, n, collector)
	duration := time.Since(start)

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:  %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Steps: %s%d%s\n", ui.ColorCyan(), collector.Steps(), ui.ColorReset())
	fmt.Fprintf(r.out, "  F(%d) = %s%s%s\n", n, ui.ColorGreen(), result.String(), ui.ColorReset())
	fmt.Fprintln(r.out)
}

// cmdCheck traces the current calculator across the profile range and
// grades the footprint against the loaded references.
func (r *REPL) cmdCheck() {
	calc, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sCalculator not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}
	if len(r.refs) == 0 {
		fmt.Fprintf(r.out, "%sNo references loaded.%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Tracing %s%s%s through F(%d)...\n",
		ui.ColorCyan(), calc.Name(), ui.ColorReset(), r.config.ProfileMax)

	// Cold calculators per bracket: memo state warmed by earlier fib
	// commands in the session must not leak into the samples.
	impl, err := student.Record(r.currentAlgo, func(c *trace.Collector) error {
		for n := 0; n <= r.config.ProfileMax; n++ {
			n := n
			sample := fib.Cold(calc)
			if _, err := c.Bracket(r.currentAlgo, n, func(obs fib.Observer) error {
				_, err := sample.Calculate(ctx, n, obs)
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	results := impl.Check(r.refs)
	report := reference.GenerateReport(results, reference.ReportAll)
	fmt.Fprintf(r.out, "\n%s\n", report)
}

// cmdAlgo handles the "algo" command.
func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available calculators: %s\n", r.getAlgoList())
		return
	}

	name := strings.ToLower(args[0])
	if _, ok := r.registry[name]; !ok {
		fmt.Fprintf(r.out, "%sUnknown calculator: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available calculators: %s\n", r.getAlgoList())
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Calculator changed to: %s%s%s\n", ui.ColorGreen(), r.registry[name].Name(), ui.ColorReset())
}

// cmdList handles the "list" command.
func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable calculators:%s\n", ui.ColorBold(), ui.ColorReset())
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), r.registry[name].Name())
	}
	fmt.Fprintln(r.out)
}

// cmdStatus displays the current session configuration.
func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Calculator:   %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:      %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Profile max:  %sF(%d)%s\n", ui.ColorCyan(), r.config.ProfileMax, ui.ColorReset())
	fmt.Fprintf(r.out, "  References:   %s%d loaded%s\n", ui.ColorCyan(), len(r.refs), ui.ColorReset())
	fmt.Fprintln(r.out)
}
