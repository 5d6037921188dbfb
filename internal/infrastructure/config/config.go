package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all connector configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Magento  MagentoConfig
	Export   ExportConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// MagentoConfig holds the remote platform connection settings
type MagentoConfig struct {
	BaseURL  string
	WSDLPath string
	Login    string
	APIKey   string
	Timeout  time.Duration
}

// ExportConfig holds the per-run export settings
type ExportConfig struct {
	Channel                 string
	Create                  bool
	DefaultLocale           string
	DefaultCurrency         string
	PriceAttribute          string
	AxisAttributes          []string
	Visibility              int
	VariantMemberVisibility int
	CatalogPath             string // PIM catalog dump read by the file source
	OutputPath              string // NDJSON destination, "-" for stdout
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PIMSYNC_ prefix (e.g., PIMSYNC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("PIMSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Magento: MagentoConfig{
			BaseURL:  v.GetString("magento.base_url"),
			WSDLPath: v.GetString("magento.wsdl_path"),
			Login:    v.GetString("magento.login"),
			APIKey:   v.GetString("magento.api_key"),
			Timeout:  v.GetDuration("magento.timeout"),
		},
		Export: ExportConfig{
			Channel:                 v.GetString("export.channel"),
			Create:                  v.GetBool("export.create"),
			DefaultLocale:           v.GetString("export.default_locale"),
			DefaultCurrency:         v.GetString("export.default_currency"),
			PriceAttribute:          v.GetString("export.price_attribute"),
			AxisAttributes:          v.GetStringSlice("export.axis_attributes"),
			Visibility:              v.GetInt("export.visibility"),
			VariantMemberVisibility: v.GetInt("export.variant_member_visibility"),
			CatalogPath:             v.GetString("export.catalog_path"),
			OutputPath:              v.GetString("export.output_path"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pimsync-connector"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "pimsync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Magento.WSDLPath == "" {
		cfg.Magento.WSDLPath = "/api/soap/?wsdl"
	}
	if cfg.Magento.Timeout == 0 {
		cfg.Magento.Timeout = 10 * time.Second
	}
	if cfg.Export.DefaultLocale == "" {
		cfg.Export.DefaultLocale = "en_US"
	}
	if cfg.Export.DefaultCurrency == "" {
		cfg.Export.DefaultCurrency = "EUR"
	}
	if cfg.Export.PriceAttribute == "" {
		cfg.Export.PriceAttribute = "price"
	}
	if cfg.Export.Visibility == 0 {
		cfg.Export.Visibility = 4 // catalog and search
	}
	if cfg.Export.VariantMemberVisibility == 0 {
		cfg.Export.VariantMemberVisibility = 1 // not visible individually
	}
	if cfg.Export.OutputPath == "" {
		cfg.Export.OutputPath = "-"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Export.Channel == "" {
		return fmt.Errorf("export.channel is required")
	}
	if c.Magento.BaseURL == "" {
		return fmt.Errorf("magento.base_url is required")
	}
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Magento.APIKey == "" {
			return fmt.Errorf("magento.api_key is required in production")
		}
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
