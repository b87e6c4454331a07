package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goalkeep/internal/session"
	"goalkeep/internal/store"
)

var actionsSession string

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List a session's action items",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, kv, err := loadSessionState(actionsSession)
		if err != nil {
			return err
		}
		defer kv.Close()

		shown := 0
		for _, it := range st.Actions.Items {
			if it.Dismissed {
				continue
			}
			mark := "[ ]"
			if it.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)  %s\n", it.ID[:8], mark, it.Priority, it.Text)
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No open action items.")
		}
		return nil
	},
}

var actionsDoneCmd = &cobra.Command{
	Use:   "done <item-id>",
	Short: "Toggle an action item's completed state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateAction(cmd, args[0], func(st *session.State, id string) bool {
			return st.Actions.Complete(id)
		})
	},
}

var actionsDismissCmd = &cobra.Command{
	Use:   "dismiss <item-id>",
	Short: "Dismiss an action item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateAction(cmd, args[0], func(st *session.State, id string) bool {
			return st.Actions.Dismiss(id)
		})
	},
}

func mutateAction(cmd *cobra.Command, ref string, mutate func(*session.State, string) bool) error {
	st, kv, err := loadSessionState(actionsSession)
	if err != nil {
		return err
	}
	defer kv.Close()

	id := ref
	for _, it := range st.Actions.Items {
		if len(ref) >= 4 && len(it.ID) >= len(ref) && it.ID[:len(ref)] == ref {
			id = it.ID
			break
		}
	}
	if !mutate(st, id) {
		return fmt.Errorf("no action item matches %q", ref)
	}
	if err := session.NewRepository(kv).Save(st); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Updated", id)
	return nil
}

// loadSessionState loads the referenced session, defaulting to the most
// recently updated one.
func loadSessionState(ref string) (*session.State, *store.Store, error) {
	kv, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	repo := session.NewRepository(kv)

	if ref == "" {
		list := repo.List()
		if len(list) == 0 {
			kv.Close()
			return nil, nil, fmt.Errorf("no sessions yet")
		}
		ref = list[0].ID
	} else if ref, err = resolveSessionID(repo, ref); err != nil {
		kv.Close()
		return nil, nil, err
	}

	st, err := repo.Load(ref)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return st, kv, nil
}

func init() {
	actionsCmd.PersistentFlags().StringVarP(&actionsSession, "session", "s", "", "session id (defaults to most recent)")
	actionsCmd.AddCommand(actionsDoneCmd)
	actionsCmd.AddCommand(actionsDismissCmd)
}
