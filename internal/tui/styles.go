// Package tui implements the interactive goalkeep chat interface using
// bubbletea: a viewport for the conversation, a textinput for the prompt,
// and inline banners for analyzer events.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the chat interface.
type Styles struct {
	Title     lipgloss.Style
	GoalBar   lipgloss.Style
	Prompt    lipgloss.Style
	UserMsg   lipgloss.Style
	BotMsg    lipgloss.Style
	DriftWarn lipgloss.Style
	Insight   lipgloss.Style
	Action    lipgloss.Style
	Observe   lipgloss.Style
	ErrMsg    lipgloss.Style
	Status    lipgloss.Style
	Momentum  lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")),
		GoalBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2196F3")).
			Italic(true),
		Prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")),
		UserMsg: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f2f2f2")).
			Bold(true),
		BotMsg: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6dae0")),
		DriftWarn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFC107")).
			Bold(true),
		Insight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4db6ac")).
			Bold(true),
		Action: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2196F3")),
		Observe: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e57373")).
			Italic(true),
		ErrMsg: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2a3850")),
		Momentum: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffd54f")),
	}
}
