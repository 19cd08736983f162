package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/growthops/leadops-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the cached CRM snapshot to XLSX for offline filtering",
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

		recs, refreshed, err := snap.Get(ctx)
		if err != nil {
			return eris.Wrap(err, "export: load snapshot")
		}
		if refreshed {
			fmt.Fprintln(cmd.OutOrStdout(), "snapshot was stale, refreshed from source")
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			name := fmt.Sprintf("outlet_data_for_upsell_%s.xlsx", time.Now().Format("2006-01-02"))
			path = filepath.Join(cfg.Export.Dir, name)
		}

		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", path)
		}
		defer f.Close() //nolint:errcheck

		if err := export.WriteCrmSnapshot(f, recs); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(recs), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output path (default: outlet_data_for_upsell_<date>.xlsx in export.dir)")
	rootCmd.AddCommand(exportCmd)
}
