package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string
	Port int
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// catalog (wger)
	CatalogBaseURL                string `toml:"catalog_base_url"`
	CatalogLanguage               int    `toml:"catalog_language"`
	CatalogTimeoutSeconds         int    `toml:"catalog_timeout_seconds"`
	CatalogRateLimitAllowedPerMin int    `toml:"catalog_rate_limit_allowed_per_min"`
	// reverse geocoding (nominatim)
	GeocodeBaseURL        string `toml:"geocode_base_url"`
	GeocodeTimeoutSeconds int    `toml:"geocode_timeout_seconds"`
	// search and logging sessions
	SessionTTLMinutes int `toml:"session_ttl_minutes"`
	// cors
	AllowedOrigins []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config section for env,
// with defaults applied to any unset timeouts and limits.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("config section for env [" + env + "] missing")
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CatalogBaseURL == "" {
		c.CatalogBaseURL = "https://wger.de/api/v2"
	}
	if c.CatalogLanguage == 0 {
		c.CatalogLanguage = 2 // english
	}
	if c.CatalogTimeoutSeconds <= 0 {
		c.CatalogTimeoutSeconds = 15
	}
	if c.CatalogRateLimitAllowedPerMin <= 0 {
		c.CatalogRateLimitAllowedPerMin = 60
	}
	if c.GeocodeBaseURL == "" {
		c.GeocodeBaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.GeocodeTimeoutSeconds <= 0 {
		c.GeocodeTimeoutSeconds = 10
	}
	if c.SessionTTLMinutes <= 0 {
		c.SessionTTLMinutes = 30
	}
}

func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}

func (c *Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.GeocodeTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
