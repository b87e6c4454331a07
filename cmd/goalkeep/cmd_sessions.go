package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goalkeep/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore()
		if err != nil {
			return err
		}
		defer kv.Close()

		repo := session.NewRepository(kv)
		list := repo.List()
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet. Run 'goalkeep chat' to start one.")
			return nil
		}
		for _, s := range list {
			goal := s.Goal
			if goal == "" {
				goal = "(no goal)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %-40s  %d messages  %s\n",
				s.ID[:8], s.Title, goal, s.Messages, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore()
		if err != nil {
			return err
		}
		defer kv.Close()

		repo := session.NewRepository(kv)
		id, err := resolveSessionID(repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.Delete(id); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted", id)
		return nil
	},
}

// resolveSessionID accepts a full id or an unambiguous prefix.
func resolveSessionID(repo *session.Repository, ref string) (string, error) {
	var match string
	for _, s := range repo.List() {
		if s.ID == ref {
			return s.ID, nil
		}
		if len(ref) >= 4 && len(s.ID) >= len(ref) && s.ID[:len(ref)] == ref {
			if match != "" {
				return "", fmt.Errorf("session prefix %q is ambiguous", ref)
			}
			match = s.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no session matches %q", ref)
	}
	return match, nil
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
