package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicworks/policyrank/internal/ranking"
	"github.com/civicworks/policyrank/internal/report"
	"github.com/civicworks/policyrank/internal/store"
)

func rankCmd(a *app) *cobra.Command {
	var (
		policiesPath    string
		assessmentsPath string
		weightsPath     string
		format          string
		save            bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank policies by weighted overall score",
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, _, weightSource, err := a.resolveWeights(weightsPath)
			if err != nil {
				return err
			}

			col, err := loadCollection(policiesPath, assessmentsPath, weights)
			if err != nil {
				return err
			}

			entries := ranking.CollectEntries(col, a.logger)
			ranked, err := ranking.Rank(entries, weights)
			if err != nil {
				return err
			}
			a.logger.Info("ranking complete",
				"policies", col.Len(),
				"ranked", len(ranked),
				"weight_source", weightSource)

			rep := report.NewRanking(ranked, weightSource, time.Now())
			if err := writeReport(rep, format); err != nil {
				return err
			}

			if save {
				if err := saveRun(cmd, a, ranked, weightSource, nil); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policiesPath, "policies", "", "Policies CSV file")
	cmd.Flags().StringVar(&assessmentsPath, "assessments", "", "Assessments CSV file")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "Weights YAML file (literal weights or AHP judgments)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format (markdown, json)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the ranking run to the configured store")
	_ = cmd.MarkFlagRequired("policies")
	_ = cmd.MarkFlagRequired("assessments")
	return cmd
}

// renderer is satisfied by every report type.
type renderer interface {
	WriteJSON(w io.Writer) error
	WriteMarkdown(w io.Writer) error
}

func writeReport(rep renderer, format string) error {
	switch format {
	case "json":
		return rep.WriteJSON(os.Stdout)
	case "markdown":
		return rep.WriteMarkdown(os.Stdout)
	default:
		return fmt.Errorf("unknown format %q (expected markdown or json)", format)
	}
}

// saveRun records a ranking run in the configured database.
func saveRun(cmd *cobra.Command, a *app, ranked []ranking.Ranked, weightSource string, seed *int64) error {
	if a.cfg.Database.URL == "" {
		return fmt.Errorf("--save requires a configured database url")
	}
	ctx := cmd.Context()
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	results := make([]store.RunEntry, len(ranked))
	for i, r := range ranked {
		results[i] = store.RunEntry{
			PolicyID:     r.PolicyID,
			OverallScore: ranking.Round2(r.Score),
			Rank:         r.Rank,
		}
	}
	run := &store.RankingRun{
		RunAt:        time.Now(),
		WeightSource: weightSource,
		Seed:         seed,
		Results:      results,
	}
	if err := st.SaveRankingRun(ctx, run); err != nil {
		return err
	}
	a.logger.Info("ranking run saved", "run_id", run.ID, "weight_source", weightSource)
	return nil
}
