package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthops/leadops-cli/internal/model"
)

func aggLead(campaign string, sel model.Selection, phone string) model.NormalizedLead {
	return Normalize(model.LabeledLead{
		IntakeRecord: model.IntakeRecord{
			Phone:        phone,
			CampaignName: campaign,
			CreateDate:   time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC),
		},
		Selected: sel,
	})
}

func TestAggregate_SourceBySelected(t *testing.T) {
	rows := []model.NormalizedLead{
		aggLead("ggl-a-x", model.SelectedYes, "6281"),
		aggLead("ggl-b-x", model.SelectedYes, "6282"),
		aggLead("ggl-c-x", model.SelectedNo, "6283"),
		aggLead("reg-d", model.SelectedYes, "6284"),
	}

	got := Aggregate(rows, LeadField, []string{"campaign_source", "selected"}, "phone")

	require.Len(t, got, 3)
	want := map[string]int{
		"facebook|yes": 1,
		"google|no":    1,
		"google|yes":   2,
	}
	for _, row := range got {
		assert.Equal(t, want[row.Key[0]+"|"+row.Key[1]], row.Count, "key %v", row.Key)
	}
}

func TestAggregate_SparseNoZeroRows(t *testing.T) {
	rows := []model.NormalizedLead{
		aggLead("ggl-a-x", model.SelectedYes, "6281"),
	}
	got := Aggregate(rows, LeadField, []string{"campaign_source", "selected"}, "phone")
	// No (google,no) or (facebook,*) rows are materialized.
	require.Len(t, got, 1)
	assert.Equal(t, model.GroupKey{"google", "yes"}, got[0].Key)
}

func TestAggregate_MeasureNullsNotCounted(t *testing.T) {
	rows := []model.NormalizedLead{
		aggLead("ggl-a-x", model.SelectedYes, "6281"),
		aggLead("ggl-a-x", model.SelectedYes, ""),
	}
	got := Aggregate(rows, LeadField, []string{"campaign_source", "selected"}, "phone")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Count)
}

func TestAggregate_NoDimensions(t *testing.T) {
	rows := []model.NormalizedLead{aggLead("ggl-a-x", model.SelectedYes, "6281")}
	assert.Nil(t, Aggregate(rows, LeadField, nil, "phone"))
}

func TestAggregate_StableOrder(t *testing.T) {
	rows := []model.NormalizedLead{
		aggLead("reg-d", model.SelectedYes, "6281"),
		aggLead("ggl-a-x", model.SelectedYes, "6282"),
	}
	got := Aggregate(rows, LeadField, []string{"campaign_source"}, "phone")
	require.Len(t, got, 2)
	assert.Equal(t, model.GroupKey{"facebook"}, got[0].Key)
	assert.Equal(t, model.GroupKey{"google"}, got[1].Key)
}

func TestReconciledField_FallsBackToLeadColumns(t *testing.T) {
	rec := model.ReconciledRecord{
		Lead: aggLead("ggl-a-x", model.SelectedYes, "6281"),
		Crm:  Classify(model.CrmRecord{LeadCode: "L-1", StatusCode: "PAID"}),
	}
	assert.Equal(t, "deal", ReconciledField(rec, "deal_outcome"))
	assert.Equal(t, "google", ReconciledField(rec, "campaign_source"))
	assert.Equal(t, "L-1", ReconciledField(rec, "lead_code"))
}
