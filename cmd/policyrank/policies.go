package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicworks/policyrank/internal/policy"
)

func policiesCmd(a *app) *cobra.Command {
	var (
		policiesPath    string
		assessmentsPath string
		category        string
	)

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Summarize a policy collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, _, _, err := a.resolveWeights("")
			if err != nil {
				return err
			}
			col, err := loadCollection(policiesPath, assessmentsPath, weights)
			if err != nil {
				return err
			}

			policies := col.All()
			if category != "" {
				cat, err := policy.ParseCategory(category)
				if err != nil {
					return err
				}
				policies = col.ByCategory(cat)
			}

			now := time.Now()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tAGE\tASSESSMENTS\tLATEST SCORE")
			for _, p := range policies {
				latestScore := "-"
				if latest, ok := p.LatestAssessment(); ok {
					latestScore = fmt.Sprintf("%.2f", latest.OverallScore())
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%dy\t%d\t%s\n",
					p.ID, p.Name, p.Category,
					p.YearsSinceImplementation(now),
					len(p.Assessments()), latestScore)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if category == "" {
				fmt.Println()
				for _, line := range categorySummary(col) {
					fmt.Println(line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policiesPath, "policies", "", "Policies CSV file")
	cmd.Flags().StringVar(&assessmentsPath, "assessments", "", "Assessments CSV file (optional)")
	cmd.Flags().StringVar(&category, "category", "", "Restrict to one category")
	_ = cmd.MarkFlagRequired("policies")
	return cmd
}

// categorySummary renders category counts in the canonical category order so
// repeated invocations print identically.
func categorySummary(col *policy.Collection) []string {
	counts := col.CategoryCounts()
	var lines []string
	for _, cat := range policy.Categories() {
		if n, ok := counts[cat]; ok {
			lines = append(lines, fmt.Sprintf("%s: %d", cat, n))
		}
	}
	return lines
}
