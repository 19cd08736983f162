package pipeline

import (
	"sort"
	"strings"

	"github.com/growthops/leadops-cli/internal/model"
)

// FieldFunc extracts a named column from a row as a string. Rows expose
// only the categorical and measure columns the aggregator understands;
// unknown names return "".
type FieldFunc[T any] func(row T, name string) string

// Aggregate groups rows by the given dimension columns and counts rows
// whose measure column is non-empty. The result is sparse: one row per
// observed combination, no dense cross-product, sorted by key for stable
// rendering. Grouping is order-insensitive; the key order follows dims.
func Aggregate[T any](rows []T, field FieldFunc[T], dims []string, measure string) []model.AggregateCount {
	if len(dims) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range rows {
		if field(row, measure) == "" {
			continue
		}
		key := make([]string, len(dims))
		for i, d := range dims {
			key[i] = field(row, d)
		}
		counts[strings.Join(key, "\x1f")]++
	}

	out := make([]model.AggregateCount, 0, len(counts))
	for joined, n := range counts {
		out = append(out, model.AggregateCount{
			Dimensions: dims,
			Key:        strings.Split(joined, "\x1f"),
			Count:      n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Join(out[i].Key, "\x1f") < strings.Join(out[j].Key, "\x1f")
	})
	return out
}

// LeadField exposes the aggregatable columns of a normalized lead.
func LeadField(l model.NormalizedLead, name string) string {
	switch name {
	case "campaign_source":
		return string(l.CampaignSource)
	case "adset":
		return l.Adset
	case "selected":
		return string(l.Selected)
	case "phone":
		return l.Phone
	case "phone_normalized":
		return l.PhoneNormalized
	case "business_name":
		return l.BusinessName
	default:
		return ""
	}
}

// ReconciledField exposes the aggregatable columns of a reconciled record,
// lead columns first, then the CRM-side tags.
func ReconciledField(r model.ReconciledRecord, name string) string {
	switch name {
	case "status":
		return r.Crm.StatusCode
	case "temperature":
		return string(r.Crm.Temperature)
	case "pipeline_stage":
		return string(r.Crm.PipelineStage)
	case "deal_outcome":
		return string(r.Crm.DealOutcome)
	case "lead_code":
		return r.Crm.LeadCode
	default:
		return LeadField(r.Lead, name)
	}
}
