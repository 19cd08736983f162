package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/growthops/leadops-cli/internal/model"
)

// Querier is the slice of the Salesforce API the extract needs.
type Querier interface {
	Query(ctx context.Context, soql string, out any) error
}

// sfQuerier wraps go-salesforce/v3 behind a rate limiter.
//
// NOTE: go-salesforce/v3 does not accept context.Context, so the ctx
// only governs the rate limiter wait; callers can still cancel there.
type sfQuerier struct {
	sf      *salesforce.Salesforce
	limiter *rate.Limiter
}

// QuerierOption configures the Salesforce querier.
type QuerierOption func(*sfQuerier)

// WithRateLimit sets a per-second rate limit for Salesforce API calls.
// A burst equal to the integer portion of rps is allowed.
func WithRateLimit(rps float64) QuerierOption {
	return func(q *sfQuerier) {
		if rps > 0 {
			q.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// NewQuerier wraps a go-salesforce instance as a Querier.
func NewQuerier(sf *salesforce.Salesforce, opts ...QuerierOption) Querier {
	q := &sfQuerier{sf: sf}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *sfQuerier) Query(ctx context.Context, soql string, out any) error {
	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "crm: rate limit")
		}
	}
	if err := q.sf.Query(soql, out); err != nil {
		return eris.Wrap(err, "crm: query")
	}
	return nil
}

// sfLead mirrors the Salesforce Lead fields the report consumes.
type sfLead struct {
	LeadCode        string `json:"Lead_Code__c"`
	OwnerPhone      string `json:"Owner_Phone__c"`
	Rating          *int   `json:"Rating__c"`
	StatusCode      string `json:"Status_Code__c"`
	CounterFollowup int    `json:"Followup_Count__c"`
	CounterMeeting  int    `json:"Meeting_Count__c"`
	SubmitAt        string `json:"CreatedDate"`
	LastUpdate      string `json:"LastModifiedDate"`
}

var sfLeadFields = []string{
	"Lead_Code__c", "Owner_Phone__c", "Rating__c", "Status_Code__c",
	"Followup_Count__c", "Meeting_Count__c", "CreatedDate", "LastModifiedDate",
}

// SalesforceSource pulls the full lead extract over SOQL.
type SalesforceSource struct {
	q Querier
}

// NewSalesforceSource builds a Source over the given querier.
func NewSalesforceSource(q Querier) *SalesforceSource {
	return &SalesforceSource{q: q}
}

func (s *SalesforceSource) Fetch(ctx context.Context) ([]model.CrmRecord, error) {
	soql := fmt.Sprintf("SELECT %s FROM Lead", strings.Join(sfLeadFields, ", "))

	var leads []sfLead
	if err := s.q.Query(ctx, soql, &leads); err != nil {
		return nil, eris.Wrap(err, "crm: fetch leads")
	}

	recs := make([]model.CrmRecord, 0, len(leads))
	for _, l := range leads {
		rec := model.CrmRecord{
			LeadCode:        l.LeadCode,
			OwnerPhone:      l.OwnerPhone,
			Rating:          l.Rating,
			StatusCode:      l.StatusCode,
			CounterFollowup: l.CounterFollowup,
			CounterMeeting:  l.CounterMeeting,
		}
		rec.SubmitAt = parseSfTime(l.SubmitAt)
		rec.LastUpdate = parseSfTime(l.LastUpdate)
		recs = append(recs, rec)
	}

	zap.L().Debug("salesforce extract fetched", zap.Int("records", len(recs)))
	return recs, nil
}

// sfTimeLayouts covers the datetime shapes Salesforce emits depending
// on API version and field type.
var sfTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
	"2006-01-02",
}

func parseSfTime(s string) time.Time {
	for _, layout := range sfTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
