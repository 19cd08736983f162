package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/growthops/leadops-cli/internal/export"
	"github.com/growthops/leadops-cli/internal/intake"
	"github.com/growthops/leadops-cli/internal/model"
	"github.com/growthops/leadops-cli/internal/sentiment"
	"github.com/growthops/leadops-cli/pkg/anthropic"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Pull intake leads, apply review labels, append to the warehouse",
	Long: `Fetches lead-capture submissions for a date range, marks each one
selected ("yes") or not ("no") from the operator's phone list, and appends
every labeled row to the warehouse. Rows are never updated in place;
re-running a review appends again.

The selection file lists one phone number per line, exactly as the phone
appears in the intake feed. Lines starting with # are ignored.`,
	RunE: runReview,
}

func init() {
	addRangeFlags(reviewCmd)
	f := reviewCmd.Flags()
	f.String("select-file", "", "path to a phone list; listed leads are labeled yes")
	f.Bool("select-all", false, "label every fetched lead yes")
	f.String("bulk-xlsx", "", "write the CRM bulk-upload workbook for selected leads to this path")
	f.Bool("suggest", false, "print a sentiment suggestion for each lead's reason text")
	f.Bool("dry-run", false, "fetch and label but do not write to the warehouse")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := cfg.Validate("intake"); err != nil {
		return err
	}

	r, err := parseRange(cmd)
	if err != nil {
		return err
	}

	selectFile, _ := cmd.Flags().GetString("select-file")
	selectAll, _ := cmd.Flags().GetBool("select-all")
	if selectFile == "" && !selectAll {
		return eris.New("review: either --select-file or --select-all is required")
	}

	selected := map[string]struct{}{}
	if selectFile != "" {
		selected, err = readSelectionFile(selectFile)
		if err != nil {
			return err
		}
	}

	src := intake.NewClient(cfg.Intake.BaseURL, intakeTimeout(), intake.WithRateLimit(cfg.Intake.RateRPS))
	records, err := src.Fetch(ctx, r)
	if err != nil {
		return eris.Wrap(err, "review: fetch intake")
	}
	zap.L().Info("intake fetched", zap.String("range", r.String()), zap.Int("records", len(records)))

	if suggest, _ := cmd.Flags().GetBool("suggest"); suggest {
		printSuggestions(cmd, records)
	}

	labeled := labelLeads(records, selected, selectAll)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d leads, %d selected\n",
			len(labeled), countSelected(labeled))
		return nil
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	n, err := st.AppendLabeledLeads(ctx, labeled)
	if err != nil {
		return eris.Wrap(err, "review: append leads")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "appended %d leads (%d selected) for %s\n",
		n, countSelected(labeled), r)

	if path, _ := cmd.Flags().GetString("bulk-xlsx"); path != "" {
		if err := writeBulkUpload(path, labeled); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bulk-upload workbook written to %s\n", path)
	}

	return nil
}

// labelLeads marks each record yes when its phone is in the selection
// set (or selectAll is on) and no otherwise. Both labels are kept: the
// warehouse stores the complement set too.
func labelLeads(records []model.IntakeRecord, selected map[string]struct{}, selectAll bool) []model.LabeledLead {
	out := make([]model.LabeledLead, 0, len(records))
	for _, rec := range records {
		label := model.SelectedNo
		if selectAll {
			label = model.SelectedYes
		} else if _, ok := selected[rec.Phone]; ok {
			label = model.SelectedYes
		}
		out = append(out, model.LabeledLead{IntakeRecord: rec, Selected: label})
	}
	return out
}

func countSelected(leads []model.LabeledLead) int {
	n := 0
	for _, l := range leads {
		if l.Selected == model.SelectedYes {
			n++
		}
	}
	return n
}

func readSelectionFile(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "review: open selection file %s", path)
	}
	defer f.Close() //nolint:errcheck

	set := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "review: read selection file %s", path)
	}
	return set, nil
}

func writeBulkUpload(path string, leads []model.LabeledLead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "review: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return export.WriteBulkUpload(f, leads)
}

func printSuggestions(cmd *cobra.Command, records []model.IntakeRecord) {
	if cfg.Anthropic.Key == "" {
		zap.L().Warn("sentiment suggestions skipped: anthropic.key not set")
		return
	}
	s := sentiment.NewSuggester(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
	for _, sug := range s.SuggestAll(cmd.Context(), records) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sug.Phone, sug.Sentiment)
	}
}
