package model

import "time"

// CampaignSource identifies the ad platform a campaign name encodes.
type CampaignSource string

const (
	SourceGoogle    CampaignSource = "google"
	SourceFacebook  CampaignSource = "facebook"
	SourceTikTok    CampaignSource = "tiktok"
	SourceUndefined CampaignSource = "undefined"
)

// Selection is the operator review label persisted to the warehouse.
// The warehouse schema stores it as the strings "yes"/"no", not a boolean.
type Selection string

const (
	SelectedYes Selection = "yes"
	SelectedNo  Selection = "no"
)

// Sentiment is the suggested polarity of a lead's free-text reason.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// IntakeRecord is one submitted lead-capture form, as returned by the
// marketing report API. Field names match the upstream JSON payload and
// the warehouse column names exactly.
type IntakeRecord struct {
	BusinessName string    `json:"business_name"`
	ContactName  string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Reason       string    `json:"reason_need"`
	CampaignName string    `json:"campaign_name"`
	CreateDate   time.Time `json:"create_date"`
}

// LabeledLead is an IntakeRecord plus the operator's review label.
// Appended to the warehouse after review; never updated in place.
type LabeledLead struct {
	IntakeRecord
	Selected Selection `json:"selected"`
}

// NormalizedLead is a labeled lead with the derived campaign and phone
// fields. Derivation is deterministic; a NormalizedLead is never mutated
// after construction.
type NormalizedLead struct {
	LabeledLead
	CampaignSource  CampaignSource `json:"campaign_source"`
	Adset           string         `json:"adset"`
	PhoneNormalized string         `json:"phone_normalized"`
}

// ReviewSuggestion pairs a lead with the sentiment suggested for its
// free-text reason. Advisory only; the operator label is authoritative.
type ReviewSuggestion struct {
	Phone     string    `json:"phone"`
	Sentiment Sentiment `json:"sentiment"`
}
