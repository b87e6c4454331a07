package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"goalkeep/internal/llm"
	"goalkeep/internal/session"
)

var analyzeSession string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot unified analysis over a stored session",
	Long: `Runs the combined drift, insight, and action-item analysis in a
single model call against a stored session's transcript. Results are
persisted the same way live analysis persists them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return err
		}
		st, kv, err := loadSessionState(analyzeSession)
		if err != nil {
			return err
		}
		defer kv.Close()

		engine := session.NewEngine(cfg, client, kv, st)
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		result, err := engine.AnalyzeUnified(ctx)
		if err != nil {
			return fmt.Errorf("unified analysis failed: %w", err)
		}
		closeErr := engine.Close()

		out := cmd.OutOrStdout()
		if result == nil {
			fmt.Fprintln(out, "No signal from analysis (transcript too short or unparseable response).")
			return closeErr
		}

		if result.Drift != nil && result.Drift.IsDrifting {
			fmt.Fprintf(out, "Drift: %s\n", result.Drift.Reason)
			if result.Drift.Suggestion != "" {
				fmt.Fprintf(out, "       %s\n", result.Drift.Suggestion)
			}
		} else {
			fmt.Fprintln(out, "Drift: on track")
		}

		if result.Insight != nil {
			fmt.Fprintf(out, "Insight [%s]: %s (conf %.2f)\n", result.Insight.Type, result.Insight.Title, result.Insight.Confidence)
			if result.Insight.Description != "" {
				fmt.Fprintf(out, "    %s\n", result.Insight.Description)
			}
		} else {
			fmt.Fprintln(out, "Insight: none detected")
		}

		if len(result.Actions) == 0 {
			fmt.Fprintln(out, "Actions: none extracted")
		}
		for _, a := range result.Actions {
			fmt.Fprintf(out, "Action [%s]: %s\n", a.Priority, a.Text)
		}
		return closeErr
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSession, "session", "", "session id or prefix (defaults to most recent)")
}
