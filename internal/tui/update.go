package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"goalkeep/internal/behavior"
	"goalkeep/internal/session"
)

// Update handles tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3
		footerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textinput.Width = msg.Width - 4
		m.viewport.SetContent(m.renderLines())
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textinput.Value())
			if input == "" || m.isLoading {
				break
			}
			m.textinput.Reset()
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}
			if m.pendingObservation != nil {
				if handled, next := m.handleObservationReply(input); handled {
					return next, nil
				}
			}
			m.push(lineUser, input)
			m.isLoading = true
			cmds = append(cmds, m.sendCmd(input), m.spinner.Tick)
		}

	case replyMsg:
		m.isLoading = false
		if msg.err != nil {
			m.push(lineError, msg.err.Error())
		} else {
			m.push(lineBot, msg.msg.Text)
		}

	case engineEventMsg:
		m.handleEngineEvent(session.Event(msg))
		cmds = append(cmds, m.listenEvents())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoading {
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEngineEvent(ev session.Event) {
	switch ev.Type {
	case session.EventDrift:
		text := "The conversation may be drifting from your goal."
		if ev.Drift != nil && ev.Drift.Suggestion != "" {
			text += " " + ev.Drift.Suggestion
		}
		m.push(lineDrift, text)
	case session.EventInsight:
		if ev.Insight != nil {
			m.push(lineInsight, fmt.Sprintf("Insight (%s): %s. %s", ev.Insight.Type, ev.Insight.Title, ev.Insight.Description))
		}
	case session.EventActions:
		m.push(lineAction, fmt.Sprintf("%d new action item(s) captured. /actions to review.", ev.ActionsAdded))
	case session.EventObservation:
		if ev.Observation != nil {
			m.pendingObservation = ev.Observation
			m.push(lineObserve, ev.Observation.Message+" "+ev.Observation.Question+" (yes / no / skip)")
		}
	}
}

// handleObservationReply interprets yes/no/skip while an observation is
// outstanding. Any other input falls through to normal chat.
func (m Model) handleObservationReply(input string) (bool, Model) {
	var resp behavior.ObservationResponse
	switch strings.ToLower(input) {
	case "yes", "y":
		resp = behavior.RespondConfirm
	case "no", "n":
		resp = behavior.RespondDeny
	case "skip", "s":
		resp = behavior.RespondDismiss
	default:
		return false, m
	}
	m.engine.RespondObservation(m.pendingObservation.ID, resp)
	m.pendingObservation = nil
	m.push(lineStatus, "Noted.")
	return true, m
}

func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "/help":
		m.push(lineStatus, "/goal <text> · /actions · /insights · /clip <category> <text> · /status · /quit")
	case "/goal":
		if rest == "" {
			m.push(lineStatus, "Goal: "+m.engine.State().Goal)
			break
		}
		m.engine.SetGoal(rest)
		m.push(lineStatus, "Goal updated: "+rest)
	case "/actions":
		items := m.engine.State().Actions.Items
		if len(items) == 0 {
			m.push(lineStatus, "No action items yet.")
			break
		}
		for _, it := range items {
			if it.Dismissed {
				continue
			}
			mark := "[ ]"
			if it.Completed {
				mark = "[x]"
			}
			m.push(lineAction, fmt.Sprintf("%s (%s) %s", mark, it.Priority, it.Text))
		}
	case "/insights":
		ins := m.engine.Insights().Insights
		if len(ins) == 0 {
			m.push(lineStatus, "No insights yet.")
			break
		}
		for _, in := range ins {
			m.push(lineInsight, fmt.Sprintf("(%s) %s", in.Type, in.Title))
		}
	case "/clip":
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) < 2 {
			m.push(lineStatus, "Usage: /clip <category> <text>")
			break
		}
		if err := m.engine.AddClip(parts[1], parts[0], ""); err != nil {
			m.push(lineError, err.Error())
			break
		}
		m.push(lineStatus, "Clipped to "+parts[0]+".")
	case "/status":
		m.push(lineStatus, m.statusLine())
	case "/quit", "/exit":
		return m, tea.Quit
	default:
		m.push(lineStatus, "Unknown command. /help for the list.")
	}
	return m, nil
}
