package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsAlgo    bool     // true if values come from the calculator list (dynamic)
}

// flagRegistry is the central list of all CLI flags for completion
// generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Short: "n", Help: "Number of sequence terms to display", ValueName: "number"},
	{Long: "profile-max", Help: "Largest index traced for complexity profiling", Values: []string{"30", "50", "100"}, ValueName: "number"},
	{Long: "algo", Help: "Calculator to trace", IsAlgo: true, ValueName: "calculator"},
	{Long: "refs", Help: "Reference to check", Values: []string{"all"}, ValueName: "reference"},
	{Long: "refs-file", Help: "References JSON file", IsFile: true, ValueName: "file"},
	{Long: "student", Help: "Name of the graded submission", ValueName: "name"},
	{Long: "report", Help: "Report filter", Values: []string{"all", "satisfied", "unsatisfied"}, ValueName: "filter"},
	{Long: "output", Short: "o", Help: "Report output file", IsFile: true, ValueName: "file"},
	{Long: "cache-dir", Help: "Footprint cache root", IsFile: true, ValueName: "dir"},
	{Long: "timeout", Help: "Global grading timeout", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "addr", Help: "Listen address for serve mode", ValueName: "address"},
	{Long: "quiet", Short: "q", Help: "Suppress progress display"},
	{Long: "verbose", Short: "v", Help: "Enable diagnostic logging"},
	{Long: "no-color", Help: "Disable ANSI colors"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// modeList enumerates the positional mode argument values.
var modeList = []string{"demo", "check", "serve", "repl", "tui"}

// GenerateCompletion generates a shell completion script for the
// specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - algorithms: List of available calculator names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, algorithms)
	case "zsh":
		return generateZshCompletion(out, algorithms)
	case "fish":
		return generateFishCompletion(out, algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// formatAlgoList joins calculator names with space separators.
func formatAlgoList(algorithms []string) string {
	return strings.Join(algorithms, " ")
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, algorithms []string) error {
	var opts []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}
	opts = append(opts, modeList...)

	fmt.Fprintf(out, "# bash completion for fibgrade\n")
	fmt.Fprintf(out, "_fibgrade() {\n")
	fmt.Fprintf(out, "    local cur prev opts algorithms\n")
	fmt.Fprintf(out, "    COMPREPLY=()\n")
	fmt.Fprintf(out, "    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	fmt.Fprintf(out, "    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	fmt.Fprintf(out, "    opts=\"%s\"\n", strings.Join(opts, " "))
	fmt.Fprintf(out, "    algorithms=\"%s\"\n\n", formatAlgoList(algorithms))
	fmt.Fprintf(out, "    case \"${prev}\" in\n")

	for _, f := range flagRegistry {
		if f.Long == "" {
			continue
		}
		switch {
		case f.IsAlgo:
			fmt.Fprintf(out, "        --%s)\n            COMPREPLY=( $(compgen -W \"${algorithms}\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case f.IsFile:
			fmt.Fprintf(out, "        --%s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long)
		case len(f.Values) > 0:
			fmt.Fprintf(out, "        --%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Long, strings.Join(f.Values, " "))
		}
	}

	fmt.Fprintf(out, "    esac\n\n")
	fmt.Fprintf(out, "    COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )\n")
	fmt.Fprintf(out, "    return 0\n")
	fmt.Fprintf(out, "}\n")
	fmt.Fprintf(out, "complete -F _fibgrade fibgrade\n")
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, algorithms []string) error {
	fmt.Fprintf(out, "#compdef fibgrade\n\n")
	fmt.Fprintf(out, "_fibgrade() {\n")
	fmt.Fprintf(out, "    local -a args\n")
	fmt.Fprintf(out, "    args=(\n")

	for _, f := range flagRegistry {
		if f.Long == "" {
			fmt.Fprintf(out, "        '-%s[%s]%s'\n", f.Short, f.Help, zshValueSpec(f, algorithms))
			continue
		}
		fmt.Fprintf(out, "        '--%s[%s]%s'\n", f.Long, f.Help, zshValueSpec(f, algorithms))
	}

	fmt.Fprintf(out, "        '1:mode:(%s)'\n", strings.Join(modeList, " "))
	fmt.Fprintf(out, "    )\n")
	fmt.Fprintf(out, "    _arguments -s $args\n")
	fmt.Fprintf(out, "}\n\n")
	fmt.Fprintf(out, "_fibgrade \"$@\"\n")
	return nil
}

// zshValueSpec renders the zsh value completion suffix for a flag.
func zshValueSpec(f FlagCompletion, algorithms []string) string {
	switch {
	case f.IsAlgo:
		return fmt.Sprintf(":%s:(%s)", f.ValueName, formatAlgoList(algorithms))
	case f.IsFile:
		return fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		return fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		return fmt.Sprintf(":%s:", f.ValueName)
	default:
		return ""
	}
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, algorithms []string) error {
	fmt.Fprintf(out, "# fish completion for fibgrade\n")
	for _, f := range flagRegistry {
		var parts []string
		parts = append(parts, "complete -c fibgrade")
		if f.Long != "" {
			parts = append(parts, "-l "+f.Long)
		}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		switch {
		case f.IsAlgo:
			parts = append(parts, fmt.Sprintf("-x -a \"%s\"", formatAlgoList(algorithms)))
		case f.IsFile:
			parts = append(parts, "-r")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-x -a \"%s\"", strings.Join(f.Values, " ")))
		}
		parts = append(parts, fmt.Sprintf("-d \"%s\"", f.Help))
		fmt.Fprintln(out, strings.Join(parts, " "))
	}
	fmt.Fprintf(out, "complete -c fibgrade -n \"__fish_is_first_arg\" -x -a \"%s\"\n", strings.Join(modeList, " "))
	return nil
}
