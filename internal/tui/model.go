package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"goalkeep/internal/behavior"
	"goalkeep/internal/session"
	"goalkeep/internal/transcript"
)

// chat transcript line kinds
type lineKind int

const (
	lineUser lineKind = iota
	lineBot
	lineDrift
	lineInsight
	lineAction
	lineObserve
	lineError
	lineStatus
)

type chatLine struct {
	kind lineKind
	text string
	at   time.Time
}

// Messages for tea updates
type (
	replyMsg struct {
		msg transcript.Message
		err error
	}
	engineEventMsg session.Event
)

// Model is the bubbletea model for the chat interface.
type Model struct {
	engine *session.Engine
	styles Styles

	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model

	lines     []chatLine
	isLoading bool
	width     int
	height    int
	ready     bool

	// Observation awaiting a confirm/deny/dismiss reply, if any.
	pendingObservation *behavior.PendingObservation
}

// New creates the chat model around a session engine.
func New(engine *session.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "Say something... (/help for commands, Ctrl+C to exit)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		engine:    engine,
		styles:    DefaultStyles(),
		textinput: ti,
		spinner:   sp,
	}

	st := engine.State()
	for _, msg := range st.Transcript.Messages {
		m.lines = append(m.lines, transcriptLine(msg))
	}
	if goal := strings.TrimSpace(st.Goal); goal != "" {
		m.lines = append(m.lines, chatLine{kind: lineStatus, text: "Goal: " + goal, at: time.Now()})
	} else {
		m.lines = append(m.lines, chatLine{kind: lineStatus, text: "No goal set. Use /goal <text> to set one.", at: time.Now()})
	}
	return m
}

func transcriptLine(msg transcript.Message) chatLine {
	kind := lineBot
	if msg.Role == transcript.RoleUser {
		kind = lineUser
	}
	return chatLine{kind: kind, text: msg.Text, at: msg.Timestamp}
}

// Init starts the spinner and the engine event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenEvents())
}

// listenEvents forwards asynchronous analyzer results into the tea loop.
func (m Model) listenEvents() tea.Cmd {
	events := m.engine.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return engineEventMsg(ev)
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		msg, err := engine.Send(ctx, text)
		return replyMsg{msg: msg, err: err}
	}
}

func (m *Model) push(kind lineKind, text string) {
	m.lines = append(m.lines, chatLine{kind: kind, text: text, at: time.Now()})
	if m.ready {
		m.viewport.SetContent(m.renderLines())
		m.viewport.GotoBottom()
	}
}

func momentumGlyph(level float64) string {
	switch {
	case level > 0.66:
		return "●●●"
	case level > 0.33:
		return "●●○"
	default:
		return "●○○"
	}
}

func (m Model) statusLine() string {
	st := m.engine.State()
	mom := st.Momentum
	open := 0
	for _, it := range st.Actions.Items {
		if !it.Completed && !it.Dismissed {
			open++
		}
	}
	return fmt.Sprintf("momentum %s %s · depth %.0f%% · %d open actions · %d insights",
		momentumGlyph(mom.Level), mom.Trend, mom.Depth*100, open, len(m.engine.Insights().Insights))
}
