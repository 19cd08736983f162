package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved report runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListReportRuns(cmd.Context(), limit)
		if err != nil {
			return eris.Wrap(err, "runs: list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no saved report runs")
			return nil
		}
		for _, run := range runs {
			conv := "n/a"
			if run.Metrics.ConversionOK {
				conv = fmt.Sprintf("%.2f%%", run.Metrics.ConversionRate*100)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  leads=%d matched=%d deals=%d conv=%s  %s\n",
				run.ID, run.Range, run.Metrics.TotalLeads, run.Metrics.CrmMatched,
				run.Metrics.DealCount, conv, run.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
