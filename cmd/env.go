package main

import (
	"context"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/growthops/leadops-cli/internal/cache"
	"github.com/growthops/leadops-cli/internal/model"
	"github.com/growthops/leadops-cli/internal/store"
	"github.com/growthops/leadops-cli/pkg/crm"
)

func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initCrmSource() (crm.Source, error) {
	if err := cfg.Validate("crm"); err != nil {
		return nil, err
	}

	switch cfg.CRM.Mode {
	case "salesforce":
		pemData, err := os.ReadFile(cfg.CRM.Salesforce.KeyPath)
		if err != nil {
			return nil, eris.Wrap(err, "read salesforce JWT private key")
		}
		sf, err := salesforce.Init(salesforce.Creds{
			Domain:         cfg.CRM.Salesforce.LoginURL,
			Username:       cfg.CRM.Salesforce.Username,
			ConsumerKey:    cfg.CRM.Salesforce.ClientID,
			ConsumerRSAPem: string(pemData),
		})
		if err != nil {
			return nil, eris.Wrap(err, "init salesforce")
		}
		q := crm.NewQuerier(sf, crm.WithRateLimit(cfg.CRM.Salesforce.RateRPS))
		return crm.NewSalesforceSource(q), nil

	case "csv":
		if cfg.CRM.CSV.URL != "" {
			return crm.NewHTTPCSVSource(nil, cfg.CRM.CSV.URL), nil
		}
		return crm.NewFTPCSVSource(
			cfg.CRM.CSV.FTPAddr,
			cfg.CRM.CSV.FTPUser,
			cfg.CRM.CSV.FTPPass,
			cfg.CRM.CSV.FTPPath,
		), nil

	default:
		return nil, eris.Errorf("unsupported crm mode: %s", cfg.CRM.Mode)
	}
}

func intakeTimeout() time.Duration {
	return time.Duration(cfg.Intake.TimeoutSecs) * time.Second
}

func initSnapshotCache(st store.Store) (*cache.CrmSnapshot, error) {
	src, err := initCrmSource()
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.CRM.SnapshotTTLHours) * time.Hour
	return cache.NewCrmSnapshot(st, src.Fetch, ttl), nil
}

// parseRange reads --start/--end flags, falling back to the monthly
// reporting convention (first of the month through yesterday, or today
// during the first three days of a month).
func parseRange(cmd *cobra.Command) (model.DateRange, error) {
	now := time.Now()
	start := model.DefaultReportStart(now)
	end := model.DefaultReportEnd(now)

	if s, _ := cmd.Flags().GetString("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return model.DateRange{}, eris.Wrapf(err, "parse --start %q", s)
		}
		start = t
	}
	if e, _ := cmd.Flags().GetString("end"); e != "" {
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			return model.DateRange{}, eris.Wrapf(err, "parse --end %q", e)
		}
		end = t
	}

	r := model.NewDateRange(start, end)
	if !r.IsValid() {
		return model.DateRange{}, eris.Errorf("invalid range %s: start after end", r)
	}
	return r, nil
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "range start date YYYY-MM-DD (default: first of month)")
	cmd.Flags().String("end", "", "range end date YYYY-MM-DD (default: yesterday)")
}
