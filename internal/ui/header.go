package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/queuify/qboard/internal/state"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string
	parts = append(parts, bg.Render("qboard", styles.Logo))

	if m.track {
		parts = append(parts, bg.Render(fmt.Sprintf("tracking #%d", m.trackID), styles.InfoText))
	} else {
		if m.orgID != "" {
			parts = append(parts, bg.Render(m.orgID, styles.MutedText))
		}
		parts = append(parts, bg.Render(m.date, styles.Text))
		parts = append(parts, m.renderTotals(styles, bg))
	}

	// Connection state
	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
		parts = append(parts, bg.Render("Retrying...", styles.WarningText))
	} else {
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	// Timestamp with relative indicator
	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Last fetch error, shown even while stale data stays on screen
	if m.snapshot.LastError != nil {
		maxErr := 60
		if m.width < 100 {
			maxErr = 30
		}
		errText := truncate(classifyFetchError(m.snapshot.LastError)+": "+m.snapshot.LastError.Error(), maxErr)
		parts = append(parts, bg.Render(errText, styles.DangerText))
	}

	// Transient action feedback
	if toast := m.currentToast(); toast != "" {
		parts = append(parts, bg.Render(truncate(toast, 50), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderTotals summarizes waiting and serving counts across all queues.
func (m Model) renderTotals(styles Styles, bg BgStyle) string {
	waiting, serving := 0, 0
	for _, q := range m.snapshot.Queues {
		waiting += state.WaitingCount(q)
		if _, ok := state.Serving(q); ok {
			serving++
		}
	}
	return bg.Render("Waiting:", styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", waiting), styles.Text) + bg.Spaces(2) +
		bg.Render("Serving:", styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", serving), styles.SuccessText)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	}

	return timeStr
}

// classifyFetchError returns a short description of a fetch error.
func classifyFetchError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	if m.track {
		commands = []cmd{
			{"r", "Refresh"},
			{"e", "Quit"},
			{"?", "More"},
		}
	} else {
		commands = []cmd{
			{"c", "Call next"},
			{"d", "Complete"},
			{"x", "No show"},
			{"j/k", "Navigate"},
			{"Tab", "Queue"},
			{"[/]", "Day"},
			{"r", "Refresh"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
