package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"goalkeep/internal/behavior"
	"goalkeep/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show inferred work-style traits and pending observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		kv, err := openStore()
		if err != nil {
			return err
		}
		defer kv.Close()

		profile := store.NewBehaviorRepository(kv).Load()
		out := cmd.OutOrStdout()

		if len(profile.Traits) == 0 {
			fmt.Fprintln(out, "Not enough interaction data yet to infer traits.")
		}
		for _, t := range profile.Traits {
			status := "unconfirmed"
			if t.ConfirmedByUser != nil {
				if *t.ConfirmedByUser {
					status = "confirmed"
				} else {
					status = "denied"
				}
			}
			fmt.Fprintf(out, "%-22s value %.2f  confidence %.2f  (%s)\n", t.Name, t.Value, t.Confidence, status)
			fmt.Fprintf(out, "    %s\n", t.Description)
		}

		inferrer := behavior.NewInferrer(behavior.InferrerConfig{
			MinSamples:          cfg.Analysis.TraitMinSamples,
			ObservationCooldown: cfg.GetObservationCooldown(),
			HintConfidenceMin:   cfg.Analysis.TraitConfidenceMin,
		})
		hints := inferrer.PersonalizationHints(profile)
		fmt.Fprintln(out)
		if hints.DriftSensitivity != "" {
			fmt.Fprintf(out, "Drift sensitivity: %s\n", hints.DriftSensitivity)
		}
		if hints.InsightFrequency != "" {
			fmt.Fprintf(out, "Insight frequency: %s\n", hints.InsightFrequency)
		}
		if hints.PromptForAlternatives != nil {
			fmt.Fprintf(out, "Prompt for alternatives: %v\n", *hints.PromptForAlternatives)
		}

		pending := 0
		for _, obs := range profile.Observations {
			if obs.Dismissed {
				continue
			}
			pending++
			fmt.Fprintf(out, "\n[%s] %s\n    %s\n    respond with: goalkeep profile respond %s confirm|deny|dismiss\n",
				obs.ID[:8], obs.Message, obs.Question, obs.ID[:8])
		}
		if pending == 0 {
			fmt.Fprintln(out, "\nNo pending observations.")
		}

		m := profile.Metrics
		fmt.Fprintf(out, "\nMetrics: tangents %d, self-corrections %d, questions %d, quick decisions %d\n",
			m.TangentCount, m.SelfCorrectionCount, m.QuestionBeforeAction, m.QuickDecision)
		fmt.Fprintf(out, "         insights kept %d / dismissed %d, clips %d idea / %d action, actions %d created / %d done\n",
			m.InsightsAccepted, m.InsightsDismissed, m.IdeaClips, m.ActionClips, m.ActionItemsCreated, m.ActionItemsCompleted)
		return nil
	},
}

var profileRespondCmd = &cobra.Command{
	Use:   "respond <observation-id> <confirm|deny|dismiss>",
	Short: "Answer a pending observation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp behavior.ObservationResponse
		switch args[1] {
		case "confirm":
			resp = behavior.RespondConfirm
		case "deny":
			resp = behavior.RespondDeny
		case "dismiss":
			resp = behavior.RespondDismiss
		default:
			return fmt.Errorf("unknown response %q (want confirm, deny, or dismiss)", args[1])
		}

		kv, err := openStore()
		if err != nil {
			return err
		}
		defer kv.Close()

		repo := store.NewBehaviorRepository(kv)
		profile := repo.Load()

		id := args[0]
		for _, obs := range profile.Observations {
			if !obs.Dismissed && len(id) >= 4 && len(obs.ID) >= len(id) && obs.ID[:len(id)] == id {
				id = obs.ID
				break
			}
		}
		inferrer := behavior.NewInferrer(behavior.InferrerConfig{
			MinSamples:          cfg.Analysis.TraitMinSamples,
			ObservationCooldown: cfg.GetObservationCooldown(),
			HintConfidenceMin:   cfg.Analysis.TraitConfidenceMin,
		})
		if !inferrer.Respond(profile, id, resp) {
			return fmt.Errorf("no pending observation matches %q", args[0])
		}
		if err := repo.Save(profile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Recorded.")
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileRespondCmd)
}
