package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fibgrade/internal/config"
	"github.com/agbru/fibgrade/internal/format"
	"github.com/agbru/fibgrade/internal/orchestration"
)

// maxLogEntries bounds the scrollback kept in memory.
const maxLogEntries = 500

// LogsModel displays a scrolling log of grading activity: progress
// entries, per-reference outcomes, and the final annotation report.
type LogsModel struct {
	entries []string
	offset  int // scroll offset from the bottom (0 = following)
	width   int
	height  int

	refNames     []string
	lastProgress map[string]float64
}

// NewLogsModel creates a log panel tracking the given references.
func NewLogsModel(refNames []string) LogsModel {
	return LogsModel{
		refNames:     refNames,
		lastProgress: make(map[string]float64, len(refNames)),
	}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
}

// AddExecutionConfig logs the session configuration at startup.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	l.append(fmt.Sprintf("%s Grading %s against %d reference(s)",
		l.timestamp(), logRefStyle.Render(cfg.Student), len(l.refNames)))
	l.append(fmt.Sprintf("%s Profiling F(0)..F(%d), timeout %s",
		l.timestamp(), cfg.ProfileMax, cfg.Timeout))
}

// AddProgressEntry logs a progress update, throttled to avoid flooding
// the scrollback with near-identical lines.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	last := l.lastProgress[msg.Label]
	if msg.Value < 1.0 && msg.Value-last < 0.25 {
		return
	}
	l.lastProgress[msg.Label] = msg.Value
	l.append(fmt.Sprintf("%s %s %s",
		l.timestamp(),
		logRefStyle.Render(msg.Label),
		logProgressStyle.Render(fmt.Sprintf("%.0f%%", msg.Value*100))))
}

// AddResults logs the per-reference check outcomes.
func (l *LogsModel) AddResults(results []orchestration.CheckResult) {
	for _, res := range results {
		switch {
		case res.Err != nil:
			l.append(fmt.Sprintf("%s %s %s",
				l.timestamp(),
				logRefStyle.Render(res.Reference),
				logErrorStyle.Render(fmt.Sprintf("error: %v", res.Err))))
		case res.Correct():
			l.append(fmt.Sprintf("%s %s %s in %s",
				l.timestamp(),
				logRefStyle.Render(res.Reference),
				logSuccessStyle.Render("satisfied"),
				format.FormatExecutionDuration(res.Duration)))
		default:
			l.append(fmt.Sprintf("%s %s %s (%d/%d annotations)",
				l.timestamp(),
				logRefStyle.Render(res.Reference),
				logErrorStyle.Render("unsatisfied"),
				len(res.Result.Satisfied()), len(res.Result.Results)))
		}
	}
}

// AddReport logs the rendered annotation report line by line.
func (l *LogsModel) AddReport(report string) {
	if report == "" {
		return
	}
	l.append("")
	for _, line := range strings.Split(strings.TrimRight(report, "\n"), "\n") {
		l.append("  " + line)
	}
}

// AddError logs a fatal grading error.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.append(fmt.Sprintf("%s %s", l.timestamp(), logErrorStyle.Render(fmt.Sprintf("FATAL: %v", msg.Err))))
}

// Reset clears the scrollback.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.offset = 0
	l.lastProgress = make(map[string]float64, len(l.refNames))
}

// Update handles scroll keys.
func (l *LogsModel) Update(msg tea.KeyMsg) {
	page := l.height - 2
	if page < 1 {
		page = 1
	}
	switch msg.String() {
	case "up", "k":
		l.scrollBy(1)
	case "down", "j":
		l.scrollBy(-1)
	case "pgup":
		l.scrollBy(page)
	case "pgdown":
		l.scrollBy(-page)
	}
}

func (l *LogsModel) scrollBy(delta int) {
	l.offset += delta
	maxOffset := len(l.entries) - 1
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *LogsModel) append(entry string) {
	l.entries = append(l.entries, entry)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
}

func (l LogsModel) timestamp() string {
	return logTimeStyle.Render(time.Now().Format("15:04:05"))
}

// View renders the log panel at the configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}

// renderToHeight renders the panel at an explicit height so the caller
// can match a sibling column.
func (l LogsModel) renderToHeight(height int) string {
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	visible := l.visibleEntries(innerHeight)
	body := strings.Join(visible, "\n")

	return panelStyle.
		Width(l.width - 2).
		Height(innerHeight).
		Render(body)
}

func (l LogsModel) visibleEntries(innerHeight int) []string {
	if len(l.entries) == 0 {
		return []string{logTimeStyle.Render("Waiting for checks...")}
	}
	end := len(l.entries) - l.offset
	if end < 1 {
		end = 1
	}
	start := end - innerHeight
	if start < 0 {
		start = 0
	}
	return l.entries[start:end]
}
