package model

import "time"

// FunnelMetrics are the scalar outputs of one reconciliation run.
// ConversionRate is only meaningful when ConversionOK is true; with zero
// filtered leads the rate is undefined, not zero.
type FunnelMetrics struct {
	TotalLeads     int     `json:"total_leads"`
	UniquePhones   int     `json:"unique_phones"`
	CrmMatched     int     `json:"crm_matched"`
	PipelineCount  int     `json:"pipeline_count"`
	DealCount      int     `json:"deal_count"`
	ConversionRate float64 `json:"conversion_rate"`
	ConversionOK   bool    `json:"conversion_ok"`
}

// GroupKey is one observed combination of categorical dimension values,
// in the caller's dimension order.
type GroupKey []string

// AggregateCount is one row of a sparse group-by result: the dimension
// names, one observed value combination, and the non-empty count of the
// measure column.
type AggregateCount struct {
	Dimensions []string `json:"dimensions"`
	Key        GroupKey `json:"key"`
	Count      int      `json:"count"`
}

// ReportRun is a persisted funnel report invocation.
type ReportRun struct {
	ID        string        `json:"id"`
	Range     DateRange     `json:"range"`
	Metrics   FunnelMetrics `json:"metrics"`
	CreatedAt time.Time     `json:"created_at"`
}
