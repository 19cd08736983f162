package model

import "time"

// Temperature buckets a CRM lead's 0-5 rating.
type Temperature string

const (
	TemperatureCold Temperature = "Cold"
	TemperatureWarm Temperature = "Warm"
	TemperatureHot  Temperature = "Hot"
	TemperatureNull Temperature = "Null"
)

// PipelineStage classifies how advanced a CRM lead is toward conversion.
type PipelineStage string

const (
	PipelineHot  PipelineStage = "Pipeline Hot"
	PipelineWarm PipelineStage = "Pipeline Warm"
	PipelineCold PipelineStage = "Pipeline Cold"
	PipelineNull PipelineStage = "Pipeline Null"
)

// DealOutcome is the funnel bucket derived from a CRM status code.
type DealOutcome string

const (
	OutcomeDeal     DealOutcome = "deal"
	OutcomePipeline DealOutcome = "pipeline"
	OutcomeLeads    DealOutcome = "leads"
)

// CrmRecord is one lead entity from the CRM extract. LeadCode is unique
// per lead and is the deduplication key. Rating is nil when the CRM has
// no rating for the lead. Column names follow the extract schema.
type CrmRecord struct {
	LeadCode        string    `json:"lead_code" csv:"lead_code"`
	OwnerPhone      string    `json:"owner_phone" csv:"owner_phone"`
	Rating          *int      `json:"rating" csv:"rating,omitempty"`
	StatusCode      string    `json:"status_code" csv:"status_code"`
	CounterFollowup int       `json:"counter_followup" csv:"counter_followup"`
	CounterMeeting  int       `json:"counter_meeting" csv:"counter_meeting"`
	SubmitAt        time.Time `json:"submit_at" csv:"submit_at"`
	LastUpdate      time.Time `json:"last_update" csv:"last_update"`
}

// ClassifiedCrmRecord carries a CrmRecord with its derived categorical
// tags. The raw status string stays on the embedded record so the tags
// remain auditable.
type ClassifiedCrmRecord struct {
	CrmRecord
	Temperature   Temperature   `json:"temperature_category"`
	PipelineStage PipelineStage `json:"pipeline_stage"`
	DealOutcome   DealOutcome   `json:"deal_outcome"`
}

// ReconciledRecord is a normalized lead joined with the CRM record that
// shares its normalized phone number. Only matched rows are retained in
// the reconciled set.
type ReconciledRecord struct {
	Lead NormalizedLead      `json:"lead"`
	Crm  ClassifiedCrmRecord `json:"crm"`
}
