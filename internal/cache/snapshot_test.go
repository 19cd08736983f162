package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/leadops-cli/internal/model"
)

type fakeStore struct {
	recs      []model.CrmRecord
	fetchedAt time.Time
	getErr    error
	setErr    error
	sets      int
}

func (f *fakeStore) GetCrmSnapshot(ctx context.Context) ([]model.CrmRecord, time.Time, error) {
	return f.recs, f.fetchedAt, f.getErr
}

func (f *fakeStore) SetCrmSnapshot(ctx context.Context, recs []model.CrmRecord, fetchedAt time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.recs = recs
	f.fetchedAt = fetchedAt
	f.sets++
	return nil
}

func crmRec(code string) model.CrmRecord {
	return model.CrmRecord{LeadCode: code, OwnerPhone: "628111"}
}

func TestCrmSnapshot_ServesFreshCache(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		recs:      []model.CrmRecord{crmRec("L-1")},
		fetchedAt: now.Add(-30 * time.Minute),
	}
	fetches := 0
	c := NewCrmSnapshot(store, func(ctx context.Context) ([]model.CrmRecord, error) {
		fetches++
		return nil, nil
	}, time.Hour)
	c.now = func() time.Time { return now }

	recs, refreshed, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Zero(t, fetches)
	require.Len(t, recs, 1)
	assert.Equal(t, "L-1", recs[0].LeadCode)
}

func TestCrmSnapshot_RefreshesWhenStale(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		recs:      []model.CrmRecord{crmRec("L-old")},
		fetchedAt: now.Add(-2 * time.Hour),
	}
	c := NewCrmSnapshot(store, func(ctx context.Context) ([]model.CrmRecord, error) {
		return []model.CrmRecord{crmRec("L-new")}, nil
	}, time.Hour)
	c.now = func() time.Time { return now }

	recs, refreshed, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, refreshed)
	require.Len(t, recs, 1)
	assert.Equal(t, "L-new", recs[0].LeadCode)
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, now, store.fetchedAt)
}

func TestCrmSnapshot_RefreshesWhenEmpty(t *testing.T) {
	store := &fakeStore{}
	c := NewCrmSnapshot(store, func(ctx context.Context) ([]model.CrmRecord, error) {
		return []model.CrmRecord{crmRec("L-1")}, nil
	}, time.Hour)

	recs, refreshed, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Len(t, recs, 1)
}

func TestCrmSnapshot_FetchErrorPropagates(t *testing.T) {
	store := &fakeStore{}
	c := NewCrmSnapshot(store, func(ctx context.Context) ([]model.CrmRecord, error) {
		return nil, errors.New("upstream down")
	}, time.Hour)

	_, _, err := c.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh crm snapshot")
}

func TestCrmSnapshot_RefreshBypassesTTL(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		recs:      []model.CrmRecord{crmRec("L-old")},
		fetchedAt: now.Add(-time.Minute),
	}
	c := NewCrmSnapshot(store, func(ctx context.Context) ([]model.CrmRecord, error) {
		return []model.CrmRecord{crmRec("L-fresh")}, nil
	}, time.Hour)
	c.now = func() time.Time { return now }

	recs, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "L-fresh", recs[0].LeadCode)
	assert.Equal(t, 1, store.sets)
}
