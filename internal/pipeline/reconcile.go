package pipeline

import "github.com/growthops/leadops-cli/internal/model"

// ReconcileResult holds the joined dataset and the scalar funnel metrics
// derived from it.
type ReconcileResult struct {
	Records []model.ReconciledRecord
	Metrics model.FunnelMetrics
}

// Reconcile date-filters both sides to the inclusive range, deduplicates
// the CRM extract by lead code (first occurrence in input order wins),
// left-joins leads to CRM records on normalized phone, drops unmatched
// rows, and deduplicates the joined set by lead code again so one CRM
// record matched by several phone variants of the same lead counts once.
//
// Unmatched leads are not errors: they stay visible in TotalLeads and
// UniquePhones but contribute nothing to the CRM-side counts.
func Reconcile(leads []model.NormalizedLead, crm []model.ClassifiedCrmRecord, r model.DateRange) ReconcileResult {
	filtered := make([]model.NormalizedLead, 0, len(leads))
	for _, l := range leads {
		if r.Contains(l.CreateDate) {
			filtered = append(filtered, l)
		}
	}

	// CRM side: date filter on submit_at, then first-seen dedup by lead code.
	byPhone := make(map[string]model.ClassifiedCrmRecord)
	seenCode := make(map[string]bool)
	for _, c := range crm {
		if !r.Contains(c.SubmitAt) {
			continue
		}
		if seenCode[c.LeadCode] {
			continue
		}
		seenCode[c.LeadCode] = true
		phone := NormalizePhone(c.OwnerPhone)
		if _, dup := byPhone[phone]; !dup {
			byPhone[phone] = c
		}
	}

	uniquePhones := make(map[string]bool, len(filtered))
	matchedCodes := make(map[string]bool)
	var records []model.ReconciledRecord
	matched := 0
	for _, l := range filtered {
		uniquePhones[l.PhoneNormalized] = true
		c, ok := byPhone[l.PhoneNormalized]
		if !ok {
			continue
		}
		matched++
		if matchedCodes[c.LeadCode] {
			continue
		}
		matchedCodes[c.LeadCode] = true
		records = append(records, model.ReconciledRecord{Lead: l, Crm: c})
	}

	m := model.FunnelMetrics{
		TotalLeads:   len(filtered),
		UniquePhones: len(uniquePhones),
		CrmMatched:   matched,
	}
	for _, rec := range records {
		switch rec.Crm.DealOutcome {
		case model.OutcomePipeline:
			m.PipelineCount++
		case model.OutcomeDeal:
			m.DealCount++
		}
	}
	// Guard the zero denominator: with no filtered leads the conversion
	// rate is undefined, not zero.
	if m.TotalLeads > 0 {
		m.ConversionRate = float64(m.DealCount) / float64(m.TotalLeads)
		m.ConversionOK = true
	}

	return ReconcileResult{Records: records, Metrics: m}
}
