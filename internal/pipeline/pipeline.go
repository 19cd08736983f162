package pipeline

import (
	"go.uber.org/zap"

	"github.com/growthops/leadops-cli/internal/model"
)

// Report is the full output of one pipeline invocation: the reconciled
// dataset, the scalar funnel metrics, and the aggregate tables the
// presentation layer renders.
type Report struct {
	Range      model.DateRange          `json:"range"`
	Metrics    model.FunnelMetrics      `json:"metrics"`
	BySource   []model.AggregateCount   `json:"by_source"`
	ByAdset    []model.AggregateCount   `json:"by_adset"`
	ByOutcome  []model.AggregateCount   `json:"by_outcome"`
	Reconciled []model.ReconciledRecord `json:"reconciled"`
}

// FilterDefined drops leads whose campaign source is undefined. Records
// with an undefined source stay in the reconciliation metrics but are
// excluded from the aggregate tables.
func FilterDefined(leads []model.NormalizedLead) []model.NormalizedLead {
	out := make([]model.NormalizedLead, 0, len(leads))
	for _, l := range leads {
		if l.CampaignSource != model.SourceUndefined {
			out = append(out, l)
		}
	}
	return out
}

// filterDefinedReconciled applies the same undefined-source exclusion to
// reconciled records, on the lead side of the join.
func filterDefinedReconciled(recs []model.ReconciledRecord) []model.ReconciledRecord {
	out := make([]model.ReconciledRecord, 0, len(recs))
	for _, r := range recs {
		if r.Lead.CampaignSource != model.SourceUndefined {
			out = append(out, r)
		}
	}
	return out
}

// Run executes the full transform chain over one warehouse snapshot and
// one CRM snapshot. All stages are pure; re-running over a refreshed or
// stale snapshot with the same contents yields the same report.
func Run(labeled []model.LabeledLead, crm []model.CrmRecord, r model.DateRange) Report {
	leads := NormalizeAll(labeled)
	classified := ClassifyAll(crm)
	rec := Reconcile(leads, classified, r)

	defined := FilterDefined(leads)
	inRange := make([]model.NormalizedLead, 0, len(defined))
	for _, l := range defined {
		if r.Contains(l.CreateDate) {
			inRange = append(inRange, l)
		}
	}

	zap.L().Debug("pipeline run",
		zap.String("range", r.String()),
		zap.Int("labeled", len(labeled)),
		zap.Int("crm", len(crm)),
		zap.Int("matched", rec.Metrics.CrmMatched),
	)

	return Report{
		Range:   r,
		Metrics: rec.Metrics,
		BySource: Aggregate(inRange, LeadField,
			[]string{"campaign_source", "selected"}, "phone"),
		ByAdset: Aggregate(inRange, LeadField,
			[]string{"adset", "selected"}, "phone"),
		ByOutcome: Aggregate(filterDefinedReconciled(rec.Records), ReconciledField,
			[]string{"campaign_source", "deal_outcome"}, "phone"),
		Reconciled: rec.Records,
	}
}
