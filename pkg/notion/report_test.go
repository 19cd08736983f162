package notion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/leadops-cli/internal/model"
)

type fakeCreator struct {
	req *notionapi.PageCreateRequest
	err error
}

func (f *fakeCreator) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &notionapi.Page{ID: "page_123"}, nil
}

func sampleRun(ok bool) model.ReportRun {
	return model.ReportRun{
		ID: "run-1",
		Range: model.DateRange{
			Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		Metrics: model.FunnelMetrics{
			TotalLeads:     120,
			UniquePhones:   100,
			CrmMatched:     40,
			PipelineCount:  25,
			DealCount:      10,
			ConversionRate: 10.0 / 120.0,
			ConversionOK:   ok,
		},
	}
}

func TestPublishReportRun(t *testing.T) {
	c := &fakeCreator{}
	pageID, err := PublishReportRun(context.Background(), c, "db-1", sampleRun(true))
	require.NoError(t, err)
	assert.Equal(t, "page_123", pageID)

	require.NotNil(t, c.req)
	assert.Equal(t, notionapi.DatabaseID("db-1"), c.req.Parent.DatabaseID)

	title := c.req.Properties["Report"].(notionapi.TitleProperty)
	assert.Contains(t, title.Title[0].Text.Content, "Lead report")

	total := c.req.Properties["Total Leads"].(notionapi.NumberProperty)
	assert.Equal(t, float64(120), total.Number)

	_, hasRate := c.req.Properties["Conversion Rate"]
	assert.True(t, hasRate)
}

func TestPublishReportRun_UndefinedRateOmitted(t *testing.T) {
	c := &fakeCreator{}
	_, err := PublishReportRun(context.Background(), c, "db-1", sampleRun(false))
	require.NoError(t, err)

	_, hasRate := c.req.Properties["Conversion Rate"]
	assert.False(t, hasRate)
}

func TestPublishReportRun_CreateError(t *testing.T) {
	c := &fakeCreator{err: errors.New("unauthorized")}
	_, err := PublishReportRun(context.Background(), c, "db-1", sampleRun(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish report run")
}
