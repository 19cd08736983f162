package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/growthops/leadops-cli/internal/db"
	"github.com/growthops/leadops-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"list_labeled_leads": `SELECT business_name, contact_name, email, phone, reason, campaign_name, create_date, selected FROM labeled_leads WHERE create_date::date >= $1 AND create_date::date <= $2 ORDER BY create_date DESC`,
	"get_crm_snapshot":   `SELECT lead_code, owner_phone, rating, status_code, counter_followup, counter_meeting, submit_at, last_update, fetched_at FROM crm_snapshot ORDER BY submit_at, lead_code`,
	"insert_report_run":  `INSERT INTO report_runs (id, range_start, range_end, metrics, created_at) VALUES ($1, $2, $3, $4, $5)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS labeled_leads (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	business_name TEXT NOT NULL DEFAULT '',
	contact_name  TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL,
	reason        TEXT NOT NULL DEFAULT '',
	campaign_name TEXT NOT NULL DEFAULT '',
	create_date   TIMESTAMPTZ NOT NULL,
	selected      TEXT NOT NULL,
	inserted_at   TIMESTAMPTZ NOT NULL DEFAULT now()
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
	submit_at        TIMESTAMPTZ,
	last_update      TIMESTAMPTZ,
	fetched_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_crm_snapshot_fetched_at ON crm_snapshot(fetched_at);

CREATE TABLE IF NOT EXISTS report_runs (
	id          TEXT PRIMARY KEY,
	range_start DATE NOT NULL,
	range_end   DATE NOT NULL,
	metrics     JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_report_runs_created_at ON report_runs(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

var labeledLeadColumns = []string{
	"id", "business_name", "contact_name", "email", "phone",
	"reason", "campaign_name", "create_date", "selected", "inserted_at",
}

// AppendLabeledLeads appends reviewed rows via COPY. No upsert: the
// warehouse keeps every submission.
func (s *PostgresStore) AppendLabeledLeads(ctx context.Context, leads []model.LabeledLead) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, len(leads))
	for i, l := range leads {
		rows[i] = []any{
			uuid.New().String(), l.BusinessName, l.ContactName, l.Email, l.Phone,
			l.Reason, l.CampaignName, l.CreateDate, string(l.Selected), now,
		}
	}
	n, err := db.CopyFrom(ctx, s.pool, "labeled_leads", labeledLeadColumns, rows)
	return n, eris.Wrap(err, "postgres: append labeled leads")
}

func (s *PostgresStore) ListLabeledLeads(ctx context.Context, r model.DateRange) ([]model.LabeledLead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT business_name, contact_name, email, phone, reason, campaign_name, create_date, selected
		 FROM labeled_leads
		 WHERE create_date::date >= $1 AND create_date::date <= $2
		 ORDER BY create_date DESC`,
		r.Start, r.End,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list labeled leads")
	}
	defer rows.Close()

	var leads []model.LabeledLead
	for rows.Next() {
		var l model.LabeledLead
		var selected string
		if err := rows.Scan(&l.BusinessName, &l.ContactName, &l.Email, &l.Phone,
			&l.Reason, &l.CampaignName, &l.CreateDate, &selected); err != nil {
			return nil, eris.Wrap(err, "postgres: scan labeled lead")
		}
		l.Selected = model.Selection(selected)
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list labeled leads iterate")
}

var crmSnapshotColumns = []string{
	"lead_code", "owner_phone", "rating", "status_code",
	"counter_followup", "counter_meeting", "submit_at", "last_update", "fetched_at",
}

// SetCrmSnapshot replaces the cached CRM extract: rows are upserted by
// lead_code, then anything not touched by this refresh is dropped.
func (s *PostgresStore) SetCrmSnapshot(ctx context.Context, recs []model.CrmRecord, fetchedAt time.Time) error {
	rows := make([][]any, len(recs))
	for i, c := range recs {
		rows[i] = []any{
			c.LeadCode, c.OwnerPhone, c.Rating, c.StatusCode,
			c.CounterFollowup, c.CounterMeeting, c.SubmitAt, c.LastUpdate, fetchedAt,
		}
	}
	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "crm_snapshot",
		Columns:      crmSnapshotColumns,
		ConflictKeys: []string{"lead_code"},
	}, rows)
	if err != nil {
		return eris.Wrap(err, "postgres: set crm snapshot")
	}

	_, err = s.pool.Exec(ctx, `DELETE FROM crm_snapshot WHERE fetched_at < $1`, fetchedAt)
	return eris.Wrap(err, "postgres: prune stale crm snapshot")
}

func (s *PostgresStore) GetCrmSnapshot(ctx context.Context) ([]model.CrmRecord, time.Time, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT lead_code, owner_phone, rating, status_code, counter_followup, counter_meeting, submit_at, last_update, fetched_at
		 FROM crm_snapshot ORDER BY submit_at, lead_code`,
	)
	if err != nil {
		return nil, time.Time{}, eris.Wrap(err, "postgres: get crm snapshot")
	}
	defer rows.Close()

	var recs []model.CrmRecord
	var fetchedAt time.Time
	for rows.Next() {
		var c model.CrmRecord
		var rowFetched time.Time
		if err := rows.Scan(&c.LeadCode, &c.OwnerPhone, &c.Rating, &c.StatusCode,
			&c.CounterFollowup, &c.CounterMeeting, &c.SubmitAt, &c.LastUpdate, &rowFetched); err != nil {
			return nil, time.Time{}, eris.Wrap(err, "postgres: scan crm snapshot row")
		}
		if rowFetched.After(fetchedAt) {
			fetchedAt = rowFetched
		}
		recs = append(recs, c)
	}
	return recs, fetchedAt, eris.Wrap(rows.Err(), "postgres: get crm snapshot iterate")
}

func (s *PostgresStore) SaveReportRun(ctx context.Context, run model.ReportRun) error {
	metricsJSON, err := json.Marshal(run.Metrics)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal metrics")
	}
	id := run.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO report_runs (id, range_start, range_end, metrics, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, run.Range.Start, run.Range.End, metricsJSON, createdAt,
	)
	return eris.Wrap(err, "postgres: insert report run")
}

func (s *PostgresStore) ListReportRuns(ctx context.Context, limit int) ([]model.ReportRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, range_start, range_end, metrics, created_at FROM report_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list report runs")
	}
	defer rows.Close()

	var runs []model.ReportRun
	for rows.Next() {
		var run model.ReportRun
		var metricsJSON []byte
		if err := rows.Scan(&run.ID, &run.Range.Start, &run.Range.End, &metricsJSON, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report run")
		}
		if err := json.Unmarshal(metricsJSON, &run.Metrics); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal metrics")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list report runs iterate")
}
