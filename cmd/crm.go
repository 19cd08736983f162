package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var crmCmd = &cobra.Command{
	Use:   "crm",
	Short: "CRM snapshot operations",
}

var crmSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Force-refresh the CRM snapshot cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := initSnapshotCache(st)
		if err != nil {
			return err
		}

		recs, err := snap.Refresh(ctx)
		if err != nil {
			return eris.Wrap(err, "crm sync")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "crm snapshot refreshed: %d records\n", len(recs))
		return nil
	},
}

func init() {
	crmCmd.AddCommand(crmSyncCmd)
	rootCmd.AddCommand(crmCmd)
}
