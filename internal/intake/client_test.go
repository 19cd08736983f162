package intake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/leadops-cli/internal/model"
)

var testRange = model.NewDateRange(
	time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC),
)

func TestFetch_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2023-04-01", r.URL.Query().Get("startdate"))
		assert.Equal(t, "2023-04-30", r.URL.Query().Get("enddate"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"business_name":"Warung Kopi","name":"Ani","email":"ani@example.test",
			 "phone":"08123","reason_need":"need pos","campaign_name":"ggl-search-x",
			 "create_date":"2023-04-05T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	recs, err := c.Fetch(context.Background(), testRange)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Warung Kopi", recs[0].BusinessName)
	assert.Equal(t, "08123", recs[0].Phone)
	assert.Equal(t, "ggl-search-x", recs[0].CampaignName)
}

func TestFetch_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	recs, err := c.Fetch(context.Background(), testRange)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), testRange)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestFetch_InvalidRange(t *testing.T) {
	c := NewClient("http://unused.test", 5*time.Second)
	r := model.NewDateRange(
		time.Date(2023, 4, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	_, err := c.Fetch(context.Background(), r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func TestFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), testRange)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestFetch_RateLimiterHonorsContext(t *testing.T) {
	c := NewClient("http://unused.test", 5*time.Second, WithRateLimit(0.0001))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// First token is available immediately; spend it.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()
	c = NewClient(srv.URL, 5*time.Second, WithRateLimit(0.0001))
	_, err := c.Fetch(ctx, testRange)
	require.NoError(t, err)

	// Second call must wait ~10000s for a token and should cancel instead.
	_, err = c.Fetch(ctx, testRange)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
