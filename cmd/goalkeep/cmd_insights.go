package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goalkeep/internal/store"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "List detected insights, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore()
		if err != nil {
			return err
		}
		defer kv.Close()

		history := store.NewInsightRepository(kv, cfg.Analysis.InsightHistoryMax).Load()
		if len(history.Insights) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No insights yet.")
			return nil
		}
		for _, in := range history.Insights {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]  %-40s  conf %.2f  %s\n",
				in.ID[:8], in.Type, in.Title, in.Confidence, in.Timestamp.Format("2006-01-02 15:04"))
			if in.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "          %s\n", in.Description)
			}
		}
		return nil
	},
}

var insightsDismissCmd = &cobra.Command{
	Use:   "dismiss <insight-id>",
	Short: "Remove an insight from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore()
		if err != nil {
			return err
		}
		defer kv.Close()

		repo := store.NewInsightRepository(kv, cfg.Analysis.InsightHistoryMax)
		history := repo.Load()

		id := args[0]
		for _, in := range history.Insights {
			if len(id) >= 4 && len(in.ID) >= len(id) && in.ID[:len(id)] == id {
				id = in.ID
				break
			}
		}
		before := len(history.Insights)
		history.Remove(id)
		if len(history.Insights) == before {
			return fmt.Errorf("no insight matches %q", args[0])
		}

		behaviorRepo := store.NewBehaviorRepository(kv)
		profile := behaviorRepo.Load()
		profile.RecordInsightDismissed()
		if err := behaviorRepo.Save(profile); err != nil {
			return err
		}
		if err := repo.Save(history); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Dismissed", id)
		return nil
	},
}

func init() {
	insightsCmd.AddCommand(insightsDismissCmd)
}
