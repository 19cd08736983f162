package main

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/growthops/leadops-cli/internal/model"
	"github.com/growthops/leadops-cli/internal/pipeline"
	"github.com/growthops/leadops-cli/pkg/notion"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reconcile labeled leads against the CRM and print funnel metrics",
	RunE:  runReport,
}

func init() {
	addRangeFlags(reportCmd)
	f := reportCmd.Flags()
	f.Bool("save", false, "persist this report run to the warehouse")
	f.Bool("notion", false, "publish this report run to the Notion report database")
	f.Bool("refresh", false, "refresh the CRM snapshot even if it is within its TTL")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	r, err := parseRange(cmd)
	if err != nil {
		return err
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	snap, err := initSnapshotCache(st)
	if err != nil {
		return err
	}

	forceRefresh, _ := cmd.Flags().GetBool("refresh")

	var (
		labeled []model.LabeledLead
		crmRecs []model.CrmRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		labeled, err = st.ListLabeledLeads(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		if forceRefresh {
			crmRecs, err = snap.Refresh(gctx)
		} else {
			crmRecs, _, err = snap.Get(gctx)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "report: fetch inputs")
	}

	rep := pipeline.Run(labeled, crmRecs, r)
	renderReport(cmd.OutOrStdout(), rep)

	save, _ := cmd.Flags().GetBool("save")
	publish, _ := cmd.Flags().GetBool("notion")
	if !save && !publish {
		return nil
	}

	run := model.ReportRun{
		ID:        uuid.NewString(),
		Range:     rep.Range,
		Metrics:   rep.Metrics,
		CreatedAt: time.Now(),
	}

	if save {
		if err := st.SaveReportRun(ctx, run); err != nil {
			return eris.Wrap(err, "report: save run")
		}
		zap.L().Info("report run saved", zap.String("id", run.ID))
	}

	if publish {
		if err := cfg.Validate("notion"); err != nil {
			return err
		}
		client := notion.NewClient(cfg.Notion.Token)
		pageID, err := notion.PublishReportRun(ctx, client, cfg.Notion.ReportDB, run)
		if err != nil {
			return eris.Wrap(err, "report: publish to notion")
		}
		zap.L().Info("report run published", zap.String("page_id", pageID))
	}

	return nil
}

func renderReport(w io.Writer, rep pipeline.Report) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Funnel report %s\n\n", rep.Range)
	p.Fprintf(w, "  total leads     %d\n", rep.Metrics.TotalLeads)
	p.Fprintf(w, "  unique phones   %d\n", rep.Metrics.UniquePhones)
	p.Fprintf(w, "  crm matched     %d\n", rep.Metrics.CrmMatched)
	p.Fprintf(w, "  pipeline        %d\n", rep.Metrics.PipelineCount)
	p.Fprintf(w, "  deals           %d\n", rep.Metrics.DealCount)
	if rep.Metrics.ConversionOK {
		p.Fprintf(w, "  conversion      %.2f%%\n", rep.Metrics.ConversionRate*100)
	} else {
		p.Fprintf(w, "  conversion      n/a (no leads in range)\n")
	}

	renderAggregate(p, w, "leads by source / selected", rep.BySource)
	renderAggregate(p, w, "leads by adset / selected", rep.ByAdset)
	renderAggregate(p, w, "matched by source / outcome", rep.ByOutcome)
}

func renderAggregate(p *message.Printer, w io.Writer, title string, rows []model.AggregateCount) {
	if len(rows) == 0 {
		return
	}
	p.Fprintf(w, "\n%s\n", title)
	for _, row := range rows {
		p.Fprintf(w, "  %-40s %d\n", strings.Join(row.Key, " / "), row.Count)
	}
}
