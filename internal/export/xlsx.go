// Package export writes XLSX workbooks: the CRM bulk-upload file built
// from selected leads, and the raw CRM snapshot dump used by the
// upsell team.
package export

import (
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/growthops/leadops-cli/internal/model"
)

// entrySource is the fixed channel tag the CRM import expects on every
// bulk-uploaded row.
const entrySource = "MARKETING-CAMPAIGN"

// bulkUploadColumns is the exact header the CRM bulk importer matches
// on. Order and spelling must not change.
var bulkUploadColumns = []string{
	"Outlet Name",
	"Nama PIC",
	"Email Address",
	"Phone Number",
	"Notes",
	"Sub Entry Source",
	"Entry Source",
}

// WriteBulkUpload renders selected leads into the CRM bulk-upload
// workbook. Leads labeled not-selected are skipped.
func WriteBulkUpload(w io.Writer, leads []model.LabeledLead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("bulk_upload")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	writeRow(sheet, bulkUploadColumns)
	for _, lead := range leads {
		if lead.Selected != model.SelectedYes {
			continue
		}
		writeRow(sheet, []string{
			lead.BusinessName,
			lead.ContactName,
			lead.Email,
			lead.Phone,
			lead.Reason,
			lead.CampaignName,
			entrySource,
		})
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

var snapshotColumns = []string{
	"lead_code", "owner_phone", "rating", "status_code",
	"counter_followup", "counter_meeting", "submit_at", "last_update",
}

// WriteCrmSnapshot dumps the cached CRM extract as a single worksheet,
// one row per lead, for offline filtering.
func WriteCrmSnapshot(w io.Writer, recs []model.CrmRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("outlet_data")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	writeRow(sheet, snapshotColumns)
	for _, rec := range recs {
		rating := ""
		if rec.Rating != nil {
			rating = strconv.Itoa(*rec.Rating)
		}
		writeRow(sheet, []string{
			rec.LeadCode,
			rec.OwnerPhone,
			rating,
			rec.StatusCode,
			strconv.Itoa(rec.CounterFollowup),
			strconv.Itoa(rec.CounterMeeting),
			formatTime(rec.SubmitAt),
			formatTime(rec.LastUpdate),
		})
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
