package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luismascotto/subquiz/internal/quiz"
)

var (
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#93C5FD")).Background(lipgloss.Color("#1F2937")).Bold(true).Padding(0, 1)
	lineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Padding(1, 2)
	maskedStyle    = lineStyle.Foreground(lipgloss.Color("#FFD166")).Bold(true)
	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	helpView       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

func (m Model) View() string {
	if m.showSummary {
		return m.summary.View() + helpView.Render("\n  ↑/↓: Scroll • q/enter: Quit\n")
	}

	var b strings.Builder
	header := "subquiz • " + m.sched.State().String()
	if m.paused {
		header += " • paused"
	}
	b.WriteString(headerStyle.Render(header) + "\n")

	if m.masked {
		b.WriteString(maskedStyle.Render(m.line))
	} else {
		b.WriteString(lineStyle.Render(m.line))
	}
	b.WriteString("\n")

	if m.sched.State() == quiz.Quizzing {
		b.WriteString(m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString(secondaryStyle.Render(m.status) + "\n")
	}

	correct, incorrect := m.sched.Report().Counts()
	b.WriteString("\n" + m.progress.ViewAs(fraction(m.current, m.duration)))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %s / %s  ✓%d ✗%d",
		clock(m.current), clock(m.duration), correct, incorrect)) + "\n")

	if m.sched.State() == quiz.Quizzing {
		b.WriteString(helpView.Render("\n  enter: Submit • esc: Give up • ctrl+c: Quit\n"))
	} else {
		b.WriteString(helpView.Render("\n  space: Pause • ←/→: Seek • q: Quit\n"))
	}
	return b.String()
}

func fraction(cur, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(float64(cur)/float64(total), 0), 1)
}

// clock formats d as m:ss, or h:mm:ss past an hour.
func clock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mi := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mi, s)
	}
	return fmt.Sprintf("%d:%02d", mi, s)
}
