package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Intake    IntakeConfig    `yaml:"intake" mapstructure:"intake"`
	CRM       CRMConfig       `yaml:"crm" mapstructure:"crm"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the warehouse backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// IntakeConfig configures the marketing report API the intake records
// are pulled from.
type IntakeConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateRPS     float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// CRMConfig configures the CRM extract source. Mode selects between the
// live Salesforce API and a periodic CSV export drop.
type CRMConfig struct {
	Mode             string           `yaml:"mode" mapstructure:"mode"` // "salesforce" or "csv"
	SnapshotTTLHours int              `yaml:"snapshot_ttl_hours" mapstructure:"snapshot_ttl_hours"`
	Salesforce       SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	CSV              CSVExportConfig  `yaml:"csv" mapstructure:"csv"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string  `yaml:"client_id" mapstructure:"client_id"`
	Username string  `yaml:"username" mapstructure:"username"`
	KeyPath  string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string  `yaml:"login_url" mapstructure:"login_url"`
	RateRPS  float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// CSVExportConfig locates the CRM CSV export. URL serves an HTTP
// download; the FTP fields serve a dropzone pull when URL is empty.
type CSVExportConfig struct {
	URL     string `yaml:"url" mapstructure:"url"`
	FTPAddr string `yaml:"ftp_addr" mapstructure:"ftp_addr"`
	FTPUser string `yaml:"ftp_user" mapstructure:"ftp_user"`
	FTPPass string `yaml:"ftp_pass" mapstructure:"ftp_pass"`
	FTPPath string `yaml:"ftp_path" mapstructure:"ftp_path"`
}

// NotionConfig holds the Notion API token and the report database ID.
type NotionConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	ReportDB string `yaml:"report_db" mapstructure:"report_db"`
}

// AnthropicConfig holds the Claude API settings for the review
// sentiment assist.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ExportConfig configures XLSX file output.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the report API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("intake.timeout_secs", 30)
	v.SetDefault("intake.rate_rps", 5)
	v.SetDefault("crm.mode", "csv")
	v.SetDefault("crm.snapshot_ttl_hours", 1)
	v.SetDefault("crm.salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("crm.salesforce.rate_rps", 5)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("export.dir", ".")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the named subsystem has the settings it needs.
func (c *Config) Validate(subsystem string) error {
	switch subsystem {
	case "store":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required")
		}
	case "intake":
		if c.Intake.BaseURL == "" {
			return eris.New("config: intake.base_url is required")
		}
	case "crm":
		switch c.CRM.Mode {
		case "salesforce":
			if c.CRM.Salesforce.ClientID == "" || c.CRM.Salesforce.Username == "" {
				return eris.New("config: crm.salesforce.client_id and username are required")
			}
		case "csv":
			if c.CRM.CSV.URL == "" && c.CRM.CSV.FTPAddr == "" {
				return eris.New("config: crm.csv.url or crm.csv.ftp_addr is required")
			}
		default:
			return eris.Errorf("config: unknown crm.mode %q", c.CRM.Mode)
		}
	case "notion":
		if c.Notion.Token == "" || c.Notion.ReportDB == "" {
			return eris.New("config: notion.token and notion.report_db are required")
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
