package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	NATS          NATSConfig          `yaml:"nats"`
	JWT           JWTConfig           `yaml:"jwt"`
	Observability ObservabilityConfig `yaml:"observability"`
	Import        ImportConfig        `yaml:"import"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig holds the API server configuration.
type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// NATSConfig holds NATS configuration. An empty URL keeps domain events in-process.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
	Issuer     string        `yaml:"issuer"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// ImportConfig tunes the match import pipeline.
type ImportConfig struct {
	ClubKey         string            `yaml:"club_key"`
	ClubDisplayName string            `yaml:"club_display_name"`
	ClubAliases     []string          `yaml:"club_aliases"`
	Timezone        string            `yaml:"timezone"`
	AutoConfirm     float64           `yaml:"auto_confirm_threshold"`
	MinSimilarity   float64           `yaml:"min_similarity"`
	MaxSuggestions  int               `yaml:"max_suggestions"`
	Corrections     map[string]string `yaml:"corrections"`
	Merge           MergeConfig       `yaml:"merge"`
}

// MergeConfig selects how re-imported player statistics combine with stored ones.
// Valid values are "sum", "max" and "replace".
type MergeConfig struct {
	Goals    string `yaml:"goals"`
	Assists  string `yaml:"assists"`
	Cards    string `yaml:"cards"`
	Minutes  string `yaml:"minutes"`
	Advanced string `yaml:"advanced"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	applyEnvOverrides(&cfg)
	cfg.applyDefaults()

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.DefaultTTL = d
		}
	}
	if v := os.Getenv("CLUB_KEY"); v != "" {
		cfg.Import.ClubKey = v
	}
	if v := os.Getenv("CLUB_DISPLAY_NAME"); v != "" {
		cfg.Import.ClubDisplayName = v
	}
	if v := os.Getenv("IMPORT_TIMEZONE"); v != "" {
		cfg.Import.Timezone = v
	}
	if v := os.Getenv("IMPORT_AUTO_CONFIRM"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Import.AutoConfirm = f
		}
	}
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	// Load Postgres DSN
	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// NATS is optional; events stay in-process without it
	cfg.NATS.URL = os.Getenv("NATS_URL")

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns a configuration with every production default applied and
// no connection settings.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// applyDefaults fills every unset field with its production default.
func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 5
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 20
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "matchdesk"
	}
	if c.JWT.DefaultTTL <= 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "matchdesk"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}

	imp := &c.Import
	if imp.ClubKey == "" {
		imp.ClubKey = "real_madrid"
	}
	if imp.ClubDisplayName == "" {
		imp.ClubDisplayName = "Real Madrid"
	}
	if len(imp.ClubAliases) == 0 {
		imp.ClubAliases = []string{"realmadrid"}
	}
	if imp.Timezone == "" {
		imp.Timezone = "Europe/Madrid"
	}
	if imp.AutoConfirm <= 0 {
		imp.AutoConfirm = 0.85
	}
	if imp.MinSimilarity <= 0 {
		imp.MinSimilarity = 0.4
	}
	if imp.MaxSuggestions <= 0 {
		imp.MaxSuggestions = 5
	}
	if imp.Merge.Goals == "" {
		imp.Merge.Goals = "sum"
	}
	if imp.Merge.Assists == "" {
		imp.Merge.Assists = "sum"
	}
	if imp.Merge.Cards == "" {
		imp.Merge.Cards = "max"
	}
	if imp.Merge.Minutes == "" {
		imp.Merge.Minutes = "max"
	}
	if imp.Merge.Advanced == "" {
		imp.Merge.Advanced = "replace"
	}
}

// Location resolves the configured import timezone, falling back to UTC.
func (c ImportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
