package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ansi builds an escape sequence from an SGR parameter string.
func ansi(params string) string {
	return "\033[" + params + "m"
}

// fg256 builds a 256-color foreground escape sequence.
func fg256(color string) string {
	return ansi("38;5;" + color)
}

// Theme is a color scheme for CLI grading output. Every field holds a
// raw escape code; the no-color theme leaves them all empty so the
// codes vanish from the output stream.
type Theme struct {
	Name string

	// Primary and Secondary color the surrounding chrome: banners,
	// reference names, table headers.
	Primary   string
	Secondary string

	// Success and Error color check verdicts (satisfied, unsatisfied
	// or failed); Warning flags degraded runs, Info everything else.
	Success string
	Warning string
	Error   string
	Info    string

	Bold      string
	Underline string
	Reset     string
}

// newTheme fills the text-attribute codes shared by every colored theme.
func newTheme(name, primary, secondary, success, warning, errColor, info string) Theme {
	return Theme{
		Name:      name,
		Primary:   primary,
		Secondary: secondary,
		Success:   success,
		Warning:   warning,
		Error:     errColor,
		Info:      info,
		Bold:      ansi("1"),
		Underline: ansi("4"),
		Reset:     ansi("0"),
	}
}

var (
	// DarkTheme is the default palette, tuned for dark terminals.
	DarkTheme = newTheme("dark",
		fg256("39"),  // bright blue
		fg256("245"), // grey
		fg256("82"),  // bright green
		fg256("220"), // yellow
		fg256("196"), // red
		fg256("141"), // purple
	)

	// LightTheme darkens every accent for light backgrounds.
	LightTheme = newTheme("light",
		fg256("27"),  // dark blue
		fg256("240"), // dark grey
		fg256("28"),  // dark green
		fg256("130"), // orange
		fg256("124"), // dark red
		fg256("54"),  // dark purple
	)

	// NoColorTheme disables all styling. Selected by --no-color or the
	// NO_COLOR environment variable.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme carries the lipgloss palette of the grading dashboard.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the dashboard palette: blue chrome, green for
	// satisfied checks, red for unsatisfied ones, purple for the work
	// sparkline.
	DarkTUITheme = TUITheme{
		Bg:      lipgloss.Color("#000000"),
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#2F6FED"),
		Accent:  lipgloss.Color("#4D9DE0"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
		Info:    lipgloss.Color("#B48EAD"),
	}

	// NoColorTUITheme renders the dashboard in the terminal's default
	// colors.
	NoColorTUITheme = TUITheme{
		Bg:      lipgloss.NoColor{},
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme maps the active CLI theme onto the dashboard
// palette: no-color stays colorless, everything else uses the dark
// dashboard (terminal dashboards assume a dark background).
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == "none" {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme directly. Tests use it to
// restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme selects the active theme by name ("dark", "light", "none").
// Unknown names fall back to dark.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme selects the startup theme. The noColor flag wins; otherwise
// a set NO_COLOR environment variable (https://no-color.org/) disables
// colors, any value included.
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = DarkTheme
}
