package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agent-finder/internal/model"
	"agent-finder/internal/track"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	foundStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	cachedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	notFoundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("agent finder — job %s", m.opts.JobID)
	if m.opts.Filename != "" {
		title += fmt.Sprintf(" (%s)", m.opts.Filename)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch m.tracker.Phase() {
	case model.PhaseProcessing:
		b.WriteString(m.processingView())
	case model.PhaseComplete:
		b.WriteString(m.completeView())
	case model.PhaseError:
		b.WriteString(m.errorView())
	default:
		b.WriteString(mutedStyle.Render("waiting for the first progress event..."))
		b.WriteString("\n")
	}

	if m.confirmCancel {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("cancel this job? the server may keep running it for a moment (y/n)"))
		b.WriteString("\n")
	} else if m.tracker.Phase() == model.PhaseProcessing {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("c cancel • q detach (job keeps running)"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) processingView() string {
	snap := m.tracker.Snapshot()
	var b strings.Builder

	frac := 0.0
	if snap.Total > 0 {
		frac = float64(snap.Completed) / float64(snap.Total)
	}
	b.WriteString(fmt.Sprintf("%s processing %d/%d\n", m.spin.View(), snap.Completed, snap.Total))
	b.WriteString(m.bar.ViewAs(frac))
	b.WriteString("\n\n")

	b.WriteString(countersLine(snap))
	b.WriteString("\n")
	b.WriteString(metricsLine(m.tracker.Metrics()))
	b.WriteString("\n")
	if snap.CurrentAddress != "" {
		b.WriteString(mutedStyle.Render("looking up: " + snap.CurrentAddress))
		b.WriteString("\n")
	}

	if feed := tickerView(m.tracker.Ticker()); feed != "" {
		b.WriteString("\n")
		b.WriteString(panelStyle.Render(feed))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) completeView() string {
	snap := m.tracker.Snapshot()
	var b strings.Builder
	b.WriteString(okStyle.Render(fmt.Sprintf("complete: %d/%d addresses processed", snap.Completed, snap.Total)))
	b.WriteString("\n")
	b.WriteString(countersLine(snap))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("fetch the export with: agent-finder download %s", m.opts.JobID)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) errorView() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("error: " + m.tracker.ErrorMessage()))
	b.WriteString("\n")
	if snap := m.tracker.Snapshot(); snap.Completed > 0 {
		b.WriteString(countersLine(snap))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("if the job is still running: agent-finder resume %s", m.opts.JobID)))
	b.WriteString("\n")
	return b.String()
}

func countersLine(snap model.ProgressSnapshot) string {
	return strings.Join([]string{
		foundStyle.Render(fmt.Sprintf("found %d", snap.Found)),
		partialStyle.Render(fmt.Sprintf("partial %d", snap.Partial)),
		cachedStyle.Render(fmt.Sprintf("cached %d", snap.Cached)),
		notFoundStyle.Render(fmt.Sprintf("not found %d", snap.NotFound)),
	}, mutedStyle.Render("  •  "))
}

func metricsLine(m track.Metrics) string {
	parts := []string{}
	if m.ThroughputPerMinute != nil {
		parts = append(parts, fmt.Sprintf("%d addr/min", *m.ThroughputPerMinute))
	} else {
		parts = append(parts, "rate: warming up")
	}
	if m.ETASeconds != nil {
		parts = append(parts, "ETA "+FormatETA(*m.ETASeconds))
	} else {
		parts = append(parts, "ETA —")
	}
	return mutedStyle.Render(strings.Join(parts, "   "))
}

func tickerView(entries []track.TickerEntry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, outcomeStyle(e.Outcome).Render(outcomeGlyph(e.Outcome))+" "+e.Address)
	}
	return strings.Join(lines, "\n")
}

func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case track.OutcomeFound:
		return foundStyle
	case track.OutcomePartial:
		return partialStyle
	case track.OutcomeCached:
		return cachedStyle
	default:
		return notFoundStyle
	}
}

func outcomeGlyph(outcome string) string {
	switch outcome {
	case track.OutcomeFound:
		return "✓"
	case track.OutcomePartial:
		return "±"
	case track.OutcomeCached:
		return "≡"
	default:
		return "✗"
	}
}

// FormatETA renders a second count the way the job list does elapsed times.
func FormatETA(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds + 0.5)
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	if total < 3600 {
		return fmt.Sprintf("%dm %02ds", total/60, total%60)
	}
	return fmt.Sprintf("%dh %02dm", total/3600, (total%3600)/60)
}
