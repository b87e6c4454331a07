package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"goalkeep/internal/session"
)

var goalSession string

var goalCmd = &cobra.Command{
	Use:   "goal [new goal...]",
	Short: "Show or set a session's goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, kv, err := loadSessionState(goalSession)
		if err != nil {
			return err
		}
		defer kv.Close()

		if len(args) == 0 {
			if st.Goal == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No goal set for this session.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), st.Goal)
			}
			return nil
		}

		st.Goal = strings.TrimSpace(strings.Join(args, " "))
		if err := session.NewRepository(kv).Save(st); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Goal for %s set to: %s\n", st.ID[:8], st.Goal)
		return nil
	},
}

func init() {
	goalCmd.Flags().StringVarP(&goalSession, "session", "s", "", "session id (defaults to most recent)")
}
