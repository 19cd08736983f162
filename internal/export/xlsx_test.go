package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/growthops/leadops-cli/internal/model"
)

func labeled(name, phone string, sel model.Selection) model.LabeledLead {
	return model.LabeledLead{
		IntakeRecord: model.IntakeRecord{
			BusinessName: name + " Store",
			ContactName:  name,
			Email:        name + "@example.com",
			Phone:        phone,
			Reason:       "need a register",
			CampaignName: "ggl_brand_jkt",
		},
		Selected: sel,
	}
}

func sheetRows(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestWriteBulkUpload(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBulkUpload(&buf, []model.LabeledLead{
		labeled("Andi", "081234", model.SelectedYes),
		labeled("Budi", "085678", model.SelectedNo),
	})
	require.NoError(t, err)

	rows := sheetRows(t, &buf)
	require.Len(t, rows, 2, "header plus one selected lead")
	assert.Equal(t, bulkUploadColumns, rows[0])

	got := rows[1]
	assert.Equal(t, "Andi Store", got[0])
	assert.Equal(t, "Andi", got[1])
	assert.Equal(t, "Andi@example.com", got[2])
	assert.Equal(t, "081234", got[3])
	assert.Equal(t, "need a register", got[4])
	assert.Equal(t, "ggl_brand_jkt", got[5])
	assert.Equal(t, "MARKETING-CAMPAIGN", got[6])
}

func TestWriteBulkUpload_NoSelected(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBulkUpload(&buf, []model.LabeledLead{labeled("Budi", "0857", model.SelectedNo)})
	require.NoError(t, err)

	rows := sheetRows(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, bulkUploadColumns, rows[0])
}

func TestWriteCrmSnapshot(t *testing.T) {
	rating := 3
	var buf bytes.Buffer
	err := WriteCrmSnapshot(&buf, []model.CrmRecord{
		{
			LeadCode:        "L-1",
			OwnerPhone:      "628111",
			Rating:          &rating,
			StatusCode:      "PAID",
			CounterFollowup: 2,
			CounterMeeting:  1,
			SubmitAt:        time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		{LeadCode: "L-2", OwnerPhone: "628222"},
	})
	require.NoError(t, err)

	rows := sheetRows(t, &buf)
	require.Len(t, rows, 3)
	assert.Equal(t, snapshotColumns, rows[0])
	assert.Equal(t, []string{"L-1", "628111", "3", "PAID", "2", "1", "2025-06-01T09:00:00Z", ""}, rows[1])
	assert.Equal(t, "", rows[2][2], "nil rating renders empty")
}
