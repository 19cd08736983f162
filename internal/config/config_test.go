package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, int32(10), cfg.Store.MaxConns)
	assert.Equal(t, 30, cfg.Intake.TimeoutSecs)
	assert.InDelta(t, 5.0, cfg.Intake.RateRPS, 0.001)
	assert.Equal(t, "csv", cfg.CRM.Mode)
	assert.Equal(t, 1, cfg.CRM.SnapshotTTLHours)
	assert.Equal(t, "https://login.salesforce.com", cfg.CRM.Salesforce.LoginURL)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
store:
  driver: sqlite
  database_url: leadops.db
crm:
  mode: salesforce
  snapshot_ttl_hours: 24
log:
  level: debug
  format: console
server:
  port: 9090
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "salesforce", cfg.CRM.Mode)
	assert.Equal(t, 24, cfg.CRM.SnapshotTTLHours)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Intake.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtemp(t)

	t.Setenv("LEADOPS_LOG_LEVEL", "warn")
	t.Setenv("LEADOPS_INTAKE_BASE_URL", "https://example.test/api/report")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "https://example.test/api/report", cfg.Intake.BaseURL)
}

func TestValidate_Store(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("store"))
	cfg.Store.DatabaseURL = "postgres://localhost/leadops"
	assert.NoError(t, cfg.Validate("store"))
}

func TestValidate_CRMModes(t *testing.T) {
	cfg := &Config{}
	cfg.CRM.Mode = "carrier-pigeon"
	assert.Error(t, cfg.Validate("crm"))

	cfg.CRM.Mode = "csv"
	assert.Error(t, cfg.Validate("crm"))
	cfg.CRM.CSV.URL = "https://exports.example.test/crm.csv"
	assert.NoError(t, cfg.Validate("crm"))

	cfg.CRM.Mode = "salesforce"
	assert.Error(t, cfg.Validate("crm"))
	cfg.CRM.Salesforce.ClientID = "id"
	cfg.CRM.Salesforce.Username = "ops@example.test"
	assert.NoError(t, cfg.Validate("crm"))
}

func TestInitLogger_BadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}

func TestInitLogger_Console(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
