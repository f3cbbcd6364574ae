package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	App       AppConfig       `yaml:"app"`
	Locations LocationsConfig `yaml:"locations"`
	Blobs     BlobsConfig     `yaml:"blobs"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Cache     CacheConfig     `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AppConfig identifies the deployment in health responses.
type AppConfig struct {
	Name   string `yaml:"name"`
	Region string `yaml:"region"`
}

// LocationsConfig selects the location repository and how the index is refreshed.
// Postgres wins over SQLite, which wins over the seed file.
type LocationsConfig struct {
	Postgres        PostgresConfig `yaml:"postgres"`
	SQLitePath      string         `yaml:"sqlitePath"`
	SeedFile        string         `yaml:"seedFile"`
	RefreshInterval time.Duration  `yaml:"refreshInterval"`
	Kafka           KafkaConfig    `yaml:"kafka"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// KafkaConfig drives the location change feed consumer.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"groupId"`
}

// BlobsConfig selects where raw forecast files are read from.
type BlobsConfig struct {
	S3       S3Config   `yaml:"s3"`
	LocalDir string     `yaml:"localDir"`
	Keys     KeysConfig `yaml:"keys"`
}

// S3Config contains S3-compatible object storage settings.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// KeysConfig holds the fmt patterns for raw blob keys.
type KeysConfig struct {
	Atmospheric string `yaml:"atmospheric"`
	Oceanic     string `yaml:"oceanic"`
	Beach       string `yaml:"beach"`
}

// ForecastConfig controls composition.
type ForecastConfig struct {
	DefaultDays      int           `yaml:"defaultDays"`
	MaxDays          int           `yaml:"maxDays"`
	FetchTimeout     time.Duration `yaml:"fetchTimeout"`
	Tolerance        time.Duration `yaml:"tolerance"`
	DefaultTolerance time.Duration `yaml:"defaultTolerance"`
	MapBaseURL       string        `yaml:"mapBaseUrl"`
}

// CacheConfig contains the composed response cache settings.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
}

// S3Configured reports whether every S3 field needed to connect is set.
func (c BlobsConfig) S3Configured() bool {
	return c.S3.Endpoint != "" && c.S3.AccessKey != "" && c.S3.SecretKey != "" && c.S3.Bucket != ""
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("APP_REGION"); v != "" {
		cfg.App.Region = v
	}
	if v := os.Getenv("LOCATIONS_POSTGRES_DSN"); v != "" {
		cfg.Locations.Postgres.DSN = v
	}
	if v := os.Getenv("LOCATIONS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Locations.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("LOCATIONS_SQLITE_PATH"); v != "" {
		cfg.Locations.SQLitePath = v
	}
	if v := os.Getenv("LOCATIONS_SEED_FILE"); v != "" {
		cfg.Locations.SeedFile = v
	}
	if v := os.Getenv("LOCATIONS_REFRESH_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Locations.RefreshInterval = parsed
		}
	}
	if v := os.Getenv("LOCATIONS_KAFKA_ENABLED"); v != "" {
		cfg.Locations.Kafka.Enabled = parseBool(v)
	}
	if v := os.Getenv("LOCATIONS_KAFKA_BROKERS"); v != "" {
		cfg.Locations.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("LOCATIONS_KAFKA_TOPIC"); v != "" {
		cfg.Locations.Kafka.Topic = v
	}
	if v := os.Getenv("BLOBS_S3_ENDPOINT"); v != "" {
		cfg.Blobs.S3.Endpoint = v
	}
	if v := os.Getenv("BLOBS_S3_ACCESS_KEY"); v != "" {
		cfg.Blobs.S3.AccessKey = v
	}
	if v := os.Getenv("BLOBS_S3_SECRET_KEY"); v != "" {
		cfg.Blobs.S3.SecretKey = v
	}
	if v := os.Getenv("BLOBS_S3_BUCKET"); v != "" {
		cfg.Blobs.S3.Bucket = v
	}
	if v := os.Getenv("BLOBS_S3_REGION"); v != "" {
		cfg.Blobs.S3.Region = v
	}
	if v := os.Getenv("BLOBS_LOCAL_DIR"); v != "" {
		cfg.Blobs.LocalDir = v
	}
	if v := os.Getenv("FORECAST_DEFAULT_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.DefaultDays = parsed
		}
	}
	if v := os.Getenv("FORECAST_MAX_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.MaxDays = parsed
		}
	}
	if v := os.Getenv("FORECAST_FETCH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.FetchTimeout = parsed
		}
	}
	if v := os.Getenv("FORECAST_TOLERANCE"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Forecast.Tolerance = parsed
		}
	}
	if v := os.Getenv("FORECAST_MAP_BASE_URL"); v != "" {
		cfg.Forecast.MapBaseURL = v
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
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

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 100 * time.Millisecond,
				Exclude: []string{
					"/metrics",
					"/readyz",
					"/healthz",
				},
			},
		},
		App: AppConfig{
			Name:   "surf-forecast",
			Region: "local",
		},
		Locations: LocationsConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SeedFile:        "configs/locations.yaml",
			RefreshInterval: 15 * time.Minute,
			Kafka: KafkaConfig{
				Topic:   "locations.changed",
				GroupID: "surf-forecast",
			},
		},
		Blobs: BlobsConfig{
			S3: S3Config{
				Region: "us-east-1",
			},
			Keys: KeysConfig{
				Atmospheric: "atmos/atmos%dpro.json",
				Oceanic:     "oceanos/oceano%d.json",
				Beach:       "oceanos/praia%d.json",
			},
		},
		Forecast: ForecastConfig{
			DefaultDays:      15,
			MaxDays:          16,
			FetchTimeout:     3 * time.Second,
			DefaultTolerance: 90 * time.Minute,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Locations.RefreshInterval < 0 {
		return errors.New("locations.refreshInterval cannot be negative")
	}
	if c.Locations.Kafka.Enabled {
		if len(c.Locations.Kafka.Brokers) == 0 {
			return errors.New("locations.kafka.brokers cannot be empty when the change feed is enabled")
		}
		if strings.TrimSpace(c.Locations.Kafka.Topic) == "" {
			return errors.New("locations.kafka.topic cannot be empty when the change feed is enabled")
		}
	}
	for name, pattern := range map[string]string{
		"atmospheric": c.Blobs.Keys.Atmospheric,
		"oceanic":     c.Blobs.Keys.Oceanic,
		"beach":       c.Blobs.Keys.Beach,
	} {
		if strings.Count(pattern, "%d") != 1 {
			return fmt.Errorf("blobs.keys.%s must contain exactly one %%d", name)
		}
	}
	if c.Forecast.DefaultDays <= 0 {
		return errors.New("forecast.defaultDays must be positive")
	}
	if c.Forecast.MaxDays <= c.Forecast.DefaultDays {
		return errors.New("forecast.maxDays must exceed forecast.defaultDays")
	}
	if c.Forecast.FetchTimeout <= 0 {
		return errors.New("forecast.fetchTimeout must be positive")
	}
	if c.Forecast.Tolerance < 0 {
		return errors.New("forecast.tolerance cannot be negative")
	}
	if c.Forecast.DefaultTolerance <= 0 {
		return errors.New("forecast.defaultTolerance must be positive")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when the response cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	return nil
}
