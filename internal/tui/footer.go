package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the bottom bar: status indicator and key help.
type FooterModel struct {
	keymap KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a new footer.
func NewFooterModel() FooterModel {
	return FooterModel{keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(paused bool) {
	f.paused = paused
}

// SetDone toggles the done indicator.
func (f *FooterModel) SetDone(done bool) {
	f.done = done
}

// SetError toggles the error indicator.
func (f *FooterModel) SetError(failed bool) {
	f.failed = failed
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.failed:
		status = statusErrorStyle.Render("● ERROR")
	case f.done:
		status = statusDoneStyle.Render("● DONE")
	case f.paused:
		status = statusDoneStyle.Render("● PAUSED")
	default:
		status = statusRunningStyle.Render("● GRADING")
	}

	var help []string
	for _, binding := range f.keymap.ShortHelp() {
		h := binding.Help()
		help = append(help, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	helpLine := strings.Join(help, footerDescStyle.Render("  "))

	row := " " + status + "  " + helpLine
	if pad := f.width - lipgloss.Width(row); pad > 0 {
		row += strings.Repeat(" ", pad)
	}
	return row
}
