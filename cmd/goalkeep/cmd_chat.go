package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"goalkeep/internal/llm"
	"goalkeep/internal/session"
	"goalkeep/internal/tui"
)

var (
	chatGoal    string
	chatSession string
	chatTitle   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{chatCmd, rootCmd} {
		c.Flags().StringVarP(&chatGoal, "goal", "g", "", "goal for this session")
		c.Flags().StringVarP(&chatSession, "session", "s", "", "resume an existing session by id")
		c.Flags().StringVarP(&chatTitle, "title", "t", "", "title for a new session")
	}
}

func runChat(cmd *cobra.Command) error {
	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}

	kv, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	repo := session.NewRepository(kv)
	var st *session.State
	if chatSession != "" {
		st, err = repo.Load(chatSession)
		if err != nil {
			return err
		}
		if chatGoal != "" {
			st.Goal = chatGoal
		}
	} else {
		title := chatTitle
		if title == "" {
			title = "Untitled session"
		}
		st = session.NewState(title, chatGoal)
	}

	engine := session.NewEngine(cfg, client, kv, st)
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: final save failed:", cerr)
		}
	}()

	program := tea.NewProgram(tui.New(engine), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
