package model

import "time"

// DateRange is an inclusive [Start, End] calendar-date window. It replaces
// the ambient session state of the original dashboard: every pipeline
// invocation receives its range explicitly.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange truncates both bounds to calendar dates.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: dateOnly(start), End: dateOnly(end)}
}

// Contains reports whether t falls inside the range, comparing calendar
// dates only. Timezone-naive on purpose: the warehouse and CRM extract
// both carry wall-clock timestamps.
func (r DateRange) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// IsValid reports whether Start does not follow End.
func (r DateRange) IsValid() bool {
	return !r.Start.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + ".." + r.End.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DefaultReportEnd returns the conventional report end date for "now":
// yesterday, except during the first three days of a month where the
// previous day would cross into the prior month's closing window and the
// current day is used instead.
func DefaultReportEnd(now time.Time) time.Time {
	if now.Day() <= 3 {
		return dateOnly(now)
	}
	return dateOnly(now.AddDate(0, 0, -1))
}

// DefaultReportStart returns the first day of now's month.
func DefaultReportStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
