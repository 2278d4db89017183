package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/civicworks/policyrank/internal/ahp"
	"github.com/civicworks/policyrank/internal/ingest"
	"github.com/civicworks/policyrank/internal/report"
)

func weightsCmd(a *app) *cobra.Command {
	var (
		judgmentsPath string
		format        string
	)

	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Derive criterion weights from pairwise AHP judgments",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ingest.LoadWeightSource(judgmentsPath)
			if err != nil {
				return err
			}
			if len(ws.Judgments) == 0 {
				return fmt.Errorf("weights file %s contains no judgments", judgmentsPath)
			}

			result, err := ahp.Derive(ws.Judgments)
			if err != nil {
				return err
			}
			if !result.Consistent {
				a.logger.Warn("AHP judgments exceed consistency threshold",
					"consistency_ratio", result.CR,
					"threshold", ahp.ConsistencyThreshold)
			} else {
				a.logger.Info("AHP derivation consistent", "consistency_ratio", result.CR)
			}

			return writeReport(report.NewAHPDiagnostic(result), format)
		},
	}

	cmd.Flags().StringVar(&judgmentsPath, "judgments", "", "Judgments YAML file")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format (markdown, json)")
	_ = cmd.MarkFlagRequired("judgments")
	return cmd
}
