// Package cache holds the time-bounded CRM snapshot collaborator. The
// transforms never see the cache: they receive whatever snapshot the
// caller hands them and behave identically on stale or fresh data.
package cache

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthops/leadops-cli/internal/model"
)

// SnapshotStore is the slice of the warehouse the cache needs.
type SnapshotStore interface {
	GetCrmSnapshot(ctx context.Context) ([]model.CrmRecord, time.Time, error)
	SetCrmSnapshot(ctx context.Context, recs []model.CrmRecord, fetchedAt time.Time) error
}

// FetchFunc pulls a full CRM extract from the upstream source.
type FetchFunc func(ctx context.Context) ([]model.CrmRecord, error)

// CrmSnapshot serves the CRM extract through a warehouse-backed cache
// with a caller-owned TTL.
type CrmSnapshot struct {
	store SnapshotStore
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time
}

// NewCrmSnapshot wires a snapshot cache over the store and source.
func NewCrmSnapshot(store SnapshotStore, fetch FetchFunc, ttl time.Duration) *CrmSnapshot {
	return &CrmSnapshot{store: store, fetch: fetch, ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot when it is younger than the TTL, and
// refreshes from the source otherwise. The refreshed flag reports
// whether the upstream source was hit.
func (c *CrmSnapshot) Get(ctx context.Context) (recs []model.CrmRecord, refreshed bool, err error) {
	cached, fetchedAt, err := c.store.GetCrmSnapshot(ctx)
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: read crm snapshot")
	}
	if len(cached) > 0 && c.now().Sub(fetchedAt) <= c.ttl {
		return cached, false, nil
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: refresh crm snapshot")
	}
	if err := c.store.SetCrmSnapshot(ctx, fresh, c.now()); err != nil {
		return nil, false, eris.Wrap(err, "cache: write crm snapshot")
	}

	zap.L().Info("crm snapshot refreshed", zap.Int("records", len(fresh)))
	return fresh, true, nil
}

// Refresh bypasses the TTL and pulls a fresh extract unconditionally.
func (c *CrmSnapshot) Refresh(ctx context.Context) ([]model.CrmRecord, error) {
	fresh, err := c.fetch(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "cache: refresh crm snapshot")
	}
	if err := c.store.SetCrmSnapshot(ctx, fresh, c.now()); err != nil {
		return nil, eris.Wrap(err, "cache: write crm snapshot")
	}
	return fresh, nil
}
