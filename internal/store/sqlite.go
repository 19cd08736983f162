package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/growthops/leadops-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Used for local
// development and one-off reporting without a Postgres warehouse.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS labeled_leads (
	id            TEXT PRIMARY KEY,
	business_name TEXT NOT NULL DEFAULT '',
	contact_name  TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL,
	reason        TEXT NOT NULL DEFAULT '',
	campaign_name TEXT NOT NULL DEFAULT '',
	create_date   DATETIME NOT NULL,
	selected      TEXT NOT NULL,
	inserted_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_labeled_leads_create_date ON labeled_leads(create_date);
CREATE INDEX IF NOT EXISTS idx_labeled_leads_phone ON labeled_leads(phone);

CREATE TABLE IF NOT EXISTS crm_snapshot (
	lead_code        TEXT PRIMARY KEY,
	owner_phone      TEXT NOT NULL DEFAULT '',
	rating           INTEGER,
	status_code      TEXT NOT NULL DEFAULT '',
	counter_followup INTEGER NOT NULL DEFAULT 0,
	counter_meeting  INTEGER NOT NULL DEFAULT 0,
	submit_at        DATETIME,
	last_update      DATETIME,
	fetched_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS report_runs (
	id          TEXT PRIMARY KEY,
	range_start DATETIME NOT NULL,
	range_end   DATETIME NOT NULL,
	metrics     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendLabeledLeads(ctx context.Context, leads []model.LabeledLead) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO labeled_leads (id, business_name, contact_name, email, phone, reason, campaign_name, create_date, selected)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare append")
	}
	defer stmt.Close()

	var n int64
	for _, l := range leads {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(),
			l.BusinessName, l.ContactName, l.Email, l.Phone,
			l.Reason, l.CampaignName, l.CreateDate.UTC(), string(l.Selected)); err != nil {
			return 0, eris.Wrap(err, "sqlite: append labeled lead")
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit append")
	}
	return n, nil
}

func (s *SQLiteStore) ListLabeledLeads(ctx context.Context, r model.DateRange) ([]model.LabeledLead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT business_name, contact_name, email, phone, reason, campaign_name, create_date, selected
		 FROM labeled_leads
		 WHERE date(create_date) >= date(?) AND date(create_date) <= date(?)
		 ORDER BY create_date DESC`,
		r.Start.UTC(), r.End.UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list labeled leads")
	}
	defer rows.Close()

	var leads []model.LabeledLead
	for rows.Next() {
		var l model.LabeledLead
		var selected string
		if err := rows.Scan(&l.BusinessName, &l.ContactName, &l.Email, &l.Phone,
			&l.Reason, &l.CampaignName, &l.CreateDate, &selected); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan labeled lead")
		}
		l.Selected = model.Selection(selected)
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list labeled leads iterate")
}

func (s *SQLiteStore) SetCrmSnapshot(ctx context.Context, recs []model.CrmRecord, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM crm_snapshot`); err != nil {
		return eris.Wrap(err, "sqlite: clear crm snapshot")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO crm_snapshot (lead_code, owner_phone, rating, status_code, counter_followup, counter_meeting, submit_at, last_update, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (lead_code) DO NOTHING`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare snapshot insert")
	}
	defer stmt.Close()

	for _, c := range recs {
		if _, err := stmt.ExecContext(ctx, c.LeadCode, c.OwnerPhone, c.Rating, c.StatusCode,
			c.CounterFollowup, c.CounterMeeting, c.SubmitAt.UTC(), c.LastUpdate.UTC(), fetchedAt.UTC()); err != nil {
			return eris.Wrap(err, "sqlite: insert crm snapshot row")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit crm snapshot")
}

func (s *SQLiteStore) GetCrmSnapshot(ctx context.Context) ([]model.CrmRecord, time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lead_code, owner_phone, rating, status_code, counter_followup, counter_meeting, submit_at, last_update, fetched_at
		 FROM crm_snapshot ORDER BY submit_at, lead_code`)
	if err != nil {
		return nil, time.Time{}, eris.Wrap(err, "sqlite: get crm snapshot")
	}
	defer rows.Close()

	var recs []model.CrmRecord
	var fetchedAt time.Time
	for rows.Next() {
		var c model.CrmRecord
		var rowFetched time.Time
		if err := rows.Scan(&c.LeadCode, &c.OwnerPhone, &c.Rating, &c.StatusCode,
			&c.CounterFollowup, &c.CounterMeeting, &c.SubmitAt, &c.LastUpdate, &rowFetched); err != nil {
			return nil, time.Time{}, eris.Wrap(err, "sqlite: scan crm snapshot row")
		}
		if rowFetched.After(fetchedAt) {
			fetchedAt = rowFetched
		}
		recs = append(recs, c)
	}
	return recs, fetchedAt, eris.Wrap(rows.Err(), "sqlite: get crm snapshot iterate")
}

func (s *SQLiteStore) SaveReportRun(ctx context.Context, run model.ReportRun) error {
	metricsJSON, err := json.Marshal(run.Metrics)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal metrics")
	}
	id := run.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO report_runs (id, range_start, range_end, metrics, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, run.Range.Start.UTC(), run.Range.End.UTC(), string(metricsJSON), createdAt,
	)
	return eris.Wrap(err, "sqlite: insert report run")
}

func (s *SQLiteStore) ListReportRuns(ctx context.Context, limit int) ([]model.ReportRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, range_start, range_end, metrics, created_at FROM report_runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list report runs")
	}
	defer rows.Close()

	var runs []model.ReportRun
	for rows.Next() {
		var run model.ReportRun
		var metricsJSON string
		if err := rows.Scan(&run.ID, &run.Range.Start, &run.Range.End, &metricsJSON, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report run")
		}
		if err := json.Unmarshal([]byte(metricsJSON), &run.Metrics); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal metrics")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list report runs iterate")
}
