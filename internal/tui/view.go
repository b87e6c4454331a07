package tui

import (
	"strings"
)

// View renders the chat interface.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("goalkeep"))
	if goal := strings.TrimSpace(m.engine.State().Goal); goal != "" {
		b.WriteString("  ")
		b.WriteString(m.styles.GoalBar.Render("→ " + goal))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.isLoading {
		b.WriteString(m.spinner.View())
		b.WriteString(" thinking...\n")
	} else {
		b.WriteString(m.styles.Momentum.Render(m.statusLine()))
		b.WriteString("\n")
	}

	b.WriteString(m.textinput.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderLines() string {
	var b strings.Builder
	for _, line := range m.lines {
		switch line.kind {
		case lineUser:
			b.WriteString(m.styles.UserMsg.Render("you: " + line.text))
		case lineBot:
			b.WriteString(m.styles.BotMsg.Render(line.text))
		case lineDrift:
			b.WriteString(m.styles.DriftWarn.Render("⚠ " + line.text))
		case lineInsight:
			b.WriteString(m.styles.Insight.Render("✦ " + line.text))
		case lineAction:
			b.WriteString(m.styles.Action.Render("· " + line.text))
		case lineObserve:
			b.WriteString(m.styles.Observe.Render("? " + line.text))
		case lineError:
			b.WriteString(m.styles.ErrMsg.Render("error: " + line.text))
		case lineStatus:
			b.WriteString(m.styles.Status.Render(line.text))
		}
		b.WriteString("\n")
	}
	return b.String()
}
