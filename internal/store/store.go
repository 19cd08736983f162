// Package store persists labeled leads, the CRM snapshot cache, and
// report runs to the warehouse.
package store

import (
	"context"
	"time"

	"github.com/growthops/leadops-cli/internal/model"
)

// Store defines the warehouse interface for the reporting pipeline.
//
// Labeled-lead writes are append-only: re-submitting a review creates
// duplicate rows by design, and deduplication on read is the
// reconciler's responsibility, not the store's.
type Store interface {
	// Labeled leads
	AppendLabeledLeads(ctx context.Context, leads []model.LabeledLead) (int64, error)
	ListLabeledLeads(ctx context.Context, r model.DateRange) ([]model.LabeledLead, error)

	// CRM snapshot cache. GetCrmSnapshot returns the rows and when they
	// were fetched; TTL policy belongs to the caller, not the store.
	SetCrmSnapshot(ctx context.Context, recs []model.CrmRecord, fetchedAt time.Time) error
	GetCrmSnapshot(ctx context.Context) ([]model.CrmRecord, time.Time, error)

	// Report runs
	SaveReportRun(ctx context.Context, run model.ReportRun) error
	ListReportRuns(ctx context.Context, limit int) ([]model.ReportRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
