// Package config provides unified configuration loading for the search service.
// Supports YAML files, .env files, environment variables, and programmatic overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // refresh schedules default to America/Sao_Paulo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the search service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Inventory     InventoryConfig     `yaml:"inventory"`
	Vocabulary    VocabularyConfig    `yaml:"vocabulary"`
	Search        SearchConfig        `yaml:"search"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	Events        EventsConfig        `yaml:"events"`
	Observability ObservabilityConfig `yaml:"observability"`
	Auth          AuthConfig          `yaml:"auth"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// InventoryConfig controls where snapshots come from and how often they refresh.
type InventoryConfig struct {
	Source        string        `yaml:"source"` // file, http or store
	Path          string        `yaml:"path"`
	FeedURL       string        `yaml:"feed_url"`
	FeedFormat    string        `yaml:"feed_format"` // json or xml
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	WriteSnapshot bool          `yaml:"write_snapshot"`
	Archive       bool          `yaml:"archive"`
	ArchiveKeep   int           `yaml:"archive_keep"`
	StaleAfter    time.Duration `yaml:"stale_after"`
	Schedule      string        `yaml:"schedule"`
	Timezone      string        `yaml:"timezone"`
	RefreshOnBoot bool          `yaml:"refresh_on_boot"`
}

// VocabularyConfig holds vocabulary file and FIPE crawler settings.
type VocabularyConfig struct {
	Path            string        `yaml:"path"`
	FIPEBaseURL     string        `yaml:"fipe_base_url"`
	RequestInterval time.Duration `yaml:"request_interval"`
	RequestBurst    int           `yaml:"request_burst"`
}

// SearchConfig holds matching and ranking settings.
type SearchConfig struct {
	TextThreshold   float64       `yaml:"text_threshold"`
	OptionThreshold float64       `yaml:"option_threshold"`
	PriceTolerance  float64       `yaml:"price_tolerance"`
	MaxResults      int           `yaml:"max_results"`
	MaxAlternatives int           `yaml:"max_alternatives"`
	Fallback        bool          `yaml:"fallback"`
	CacheResults    bool          `yaml:"cache_results"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	Weights         WeightsConfig `yaml:"weights"`
}

// WeightsConfig holds per-field relevance weights.
type WeightsConfig struct {
	Brand     float64 `yaml:"brand"`
	Category  float64 `yaml:"category"`
	Secondary float64 `yaml:"secondary"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Driver   string         `yaml:"driver"` // sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path         string `yaml:"path"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	JournalMode  string `yaml:"journal_mode"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// EventsConfig selects the inventory-refreshed notification backend.
type EventsConfig struct {
	Driver  string     `yaml:"driver"` // none, redis or nats
	Subject string     `yaml:"subject"`
	NATS    NATSConfig `yaml:"nats"`
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

// ObservabilityConfig holds logging and tracing settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
	AuditSearch bool   `yaml:"audit_search"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	Enabled bool     `yaml:"enabled"`
	APIKeys []string `yaml:"api_keys"`
}

// RateLimitConfig holds per-client request rate limits.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		cfg.Inventory.Path = ResolveRelativePath(path, cfg.Inventory.Path)
		cfg.Vocabulary.Path = ResolveRelativePath(path, cfg.Vocabulary.Path)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   20 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Inventory: InventoryConfig{
			Source:        "file",
			Path:          "dados.json",
			FeedFormat:    "xml",
			FetchTimeout:  60 * time.Second,
			WriteSnapshot: true,
			ArchiveKeep:   10,
			StaleAfter:    13 * time.Hour,
			Schedule:      "5 0,12 * * *",
			Timezone:      "America/Sao_Paulo",
			RefreshOnBoot: true,
		},
		Vocabulary: VocabularyConfig{
			Path:            "fipe_vocabulary.json",
			FIPEBaseURL:     "https://parallelum.com.br/fipe/api/v1/carros",
			RequestInterval: 200 * time.Millisecond,
			RequestBurst:    5,
		},
		Search: SearchConfig{
			TextThreshold:   85,
			OptionThreshold: 90,
			PriceTolerance:  1.0,
			MaxResults:      50,
			MaxAlternatives: 10,
			Fallback:        true,
			CacheResults:    true,
			CacheTTL:        5 * time.Minute,
			Weights: WeightsConfig{
				Brand:     100,
				Category:  80,
				Secondary: 50,
			},
		},
		Database: DatabaseConfig{
			Enabled: false,
			Driver:  "sqlite",
			SQLite: SQLiteConfig{
				Path:         "/tmp/api-ia.db",
				MaxOpenConns: 1,
				JournalMode:  "WAL",
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
				Prefix:   "api-ia:",
			},
		},
		Events: EventsConfig{
			Driver:  "none",
			Subject: "inventory.refreshed",
			NATS: NATSConfig{
				URL:  "nats://localhost:4222",
				Name: "api-ia",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "api-ia",
			AuditSearch: true,
		},
		Auth: AuthConfig{
			Enabled: false,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Inventory.Source {
	case "file":
		if c.Inventory.Path == "" {
			return fmt.Errorf("inventory.path is required for the file source")
		}
	case "http":
		if c.Inventory.FeedURL == "" {
			return fmt.Errorf("inventory.feed_url is required for the http source")
		}
		if c.Inventory.FeedFormat != "json" && c.Inventory.FeedFormat != "xml" {
			return fmt.Errorf("invalid feed format: %s", c.Inventory.FeedFormat)
		}
	case "store":
		if !c.Database.Enabled {
			return fmt.Errorf("inventory source store requires database.enabled")
		}
	default:
		return fmt.Errorf("invalid inventory source: %s", c.Inventory.Source)
	}

	if _, err := time.LoadLocation(c.Inventory.Timezone); err != nil {
		return fmt.Errorf("invalid inventory timezone %q: %w", c.Inventory.Timezone, err)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("invalid database driver: %s", c.Database.Driver)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	switch c.Events.Driver {
	case "none", "redis", "nats":
	default:
		return fmt.Errorf("invalid events driver: %s", c.Events.Driver)
	}
	if c.Events.Driver == "redis" && c.Cache.Driver != "redis" {
		return fmt.Errorf("events driver redis requires cache driver redis")
	}

	if c.Search.TextThreshold <= 0 || c.Search.TextThreshold > 100 {
		return fmt.Errorf("text_threshold must be in (0, 100]")
	}
	if c.Search.OptionThreshold <= 0 || c.Search.OptionThreshold > 100 {
		return fmt.Errorf("option_threshold must be in (0, 100]")
	}
	if c.Search.PriceTolerance < 1 {
		return fmt.Errorf("price_tolerance must be >= 1")
	}
	if c.Search.MaxResults < 1 || c.Search.MaxResults > 500 {
		return fmt.Errorf("max_results must be between 1 and 500")
	}
	if c.Search.MaxAlternatives < 0 {
		return fmt.Errorf("max_alternatives must not be negative")
	}

	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("auth enabled but no api_keys configured")
	}

	return nil
}

// DatabaseDSN returns the appropriate database connection string.
func (c *Config) DatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLite.Path
	}
	return c.Database.Postgres.DSN
}

// Location returns the refresh schedule time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Inventory.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("INVENTORY_SOURCE"); v != "" {
		cfg.Inventory.Source = v
	}

	if v := os.Getenv("INVENTORY_PATH"); v != "" {
		cfg.Inventory.Path = v
	}

	if v := os.Getenv("XML_URL"); v != "" {
		cfg.Inventory.FeedURL = v
		cfg.Inventory.FeedFormat = "xml"
		if os.Getenv("INVENTORY_SOURCE") == "" {
			cfg.Inventory.Source = "http"
		}
	}

	if v := os.Getenv("INVENTORY_SCHEDULE"); v != "" {
		cfg.Inventory.Schedule = v
	}

	if v := os.Getenv("INVENTORY_TIMEZONE"); v != "" {
		cfg.Inventory.Timezone = v
	}

	if v := os.Getenv("VOCABULARY_PATH"); v != "" {
		cfg.Vocabulary.Path = v
	}

	if v := os.Getenv("PRICE_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.PriceTolerance = f
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.Enabled = true
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Database.Driver = "sqlite"
			cfg.Database.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Database.Driver = "postgres"
			cfg.Database.Postgres.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.URL = v
	}

	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Events.Driver = "nats"
		cfg.Events.NATS.URL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.Observability.ServiceName = v
	}

	if v := os.Getenv("API_KEYS"); v != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.APIKeys = nil
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.Auth.APIKeys = append(cfg.Auth.APIKeys, k)
			}
		}
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
