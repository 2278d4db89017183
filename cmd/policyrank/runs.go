package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func runsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted ranking runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Database.URL == "" {
				return fmt.Errorf("runs requires a configured database url")
			}
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRankingRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no ranking runs recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN ID\tRUN AT\tWEIGHTS\tSEED\tPOLICIES\tTOP POLICY")
			for _, run := range runs {
				seed := "-"
				if run.Seed != nil {
					seed = fmt.Sprintf("%d", *run.Seed)
				}
				top := "-"
				if len(run.Results) > 0 {
					top = fmt.Sprintf("%s (%.2f)", run.Results[0].PolicyID, run.Results[0].OverallScore)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					run.ID, run.RunAt.Format(time.RFC3339),
					run.WeightSource, seed, len(run.Results), top)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
