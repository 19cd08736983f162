package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/growthops/leadops-cli/internal/model"
)

// PublishReportRun creates one database row per report run. The target
// database needs a title property named "Report" plus number and date
// properties matching the keys below.
func PublishReportRun(ctx context.Context, c Client, dbID string, run model.ReportRun) (string, error) {
	title := fmt.Sprintf("Lead report %s", run.Range)

	props := notionapi.Properties{
		"Report": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: title}}},
		},
		"Period": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: dateOf(run.Range.Start),
				End:   dateOf(run.Range.End),
			},
		},
		"Total Leads":   numberProp(run.Metrics.TotalLeads),
		"Unique Phones": numberProp(run.Metrics.UniquePhones),
		"CRM Matched":   numberProp(run.Metrics.CrmMatched),
		"Pipeline":      numberProp(run.Metrics.PipelineCount),
		"Deals":         numberProp(run.Metrics.DealCount),
	}
	if run.Metrics.ConversionOK {
		props["Conversion Rate"] = notionapi.NumberProperty{Number: run.Metrics.ConversionRate}
	}

	page, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("notion: publish report run %s", run.ID))
	}
	return string(page.ID), nil
}

func numberProp(n int) notionapi.NumberProperty {
	return notionapi.NumberProperty{Number: float64(n)}
}

func dateOf(t time.Time) *notionapi.Date {
	d := notionapi.Date(t)
	return &d
}
