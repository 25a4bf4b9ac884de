package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Log        LogConfig
	HTTP       HTTPConfig
	AliExpress AliExpressConfig
	Sync       SyncConfig
	Cron       CronConfig
	Admin      AdminConfig
	Telemetry  TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string // full connection URL, wins over the discrete fields
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

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
	MaxBodyBytes     int64
	// PublicRateLimit is requests per minute per client IP on storefront
	// endpoints. 0 disables the limiter.
	PublicRateLimit int
	PublicRateBurst int
}

// AliExpressConfig holds the affiliate API credentials and request defaults
type AliExpressConfig struct {
	AppKey             string
	AppSecret          string
	TrackingID         string
	APIBaseURL         string
	TimeoutSeconds     int
	ShipToCountry      string
	TargetCurrency     string
	TargetLanguage     string
	MinRequestInterval time.Duration
}

// Lock backends
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// SyncConfig holds catalog sync scheduling and housekeeping settings
type SyncConfig struct {
	SchedulerEnabled       bool
	Interval               time.Duration // catalog sync period
	CouponInterval         time.Duration // coupon sync period
	StaleAfter             time.Duration // running runs older than this are failed by the sweep
	SweepInterval          time.Duration
	LockBackend            string // memory or redis
	LockTTL                time.Duration
	ReferenceCacheTTL      time.Duration // 0 reloads brands and categories every run
	DeactivateMissingAfter time.Duration // 0 disables the vanished-product sweep
}

// CronConfig holds the shared secret of the scheduled trigger endpoints
type CronConfig struct {
	Secret string
}

// AdminConfig holds the admin API bearer token
type AdminConfig struct {
	Token string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsInterval   time.Duration
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
}

// LoadDotEnv loads .env.local and then .env into the process environment.
// Variables already set are never overwritten, so .env.local wins over .env.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env.local", ".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ELECTIC_ prefix (e.g., ELECTIC_ALIEXPRESS_APP_KEY)
// 2. .env.local / .env (loaded into the environment first)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ELECTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
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
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			MaxBodyBytes:     v.GetInt64("http.max_body_bytes"),
			PublicRateLimit:  v.GetInt("http.public_rate_limit"),
			PublicRateBurst:  v.GetInt("http.public_rate_burst"),
		},
		AliExpress: AliExpressConfig{
			AppKey:             v.GetString("aliexpress.app_key"),
			AppSecret:          v.GetString("aliexpress.app_secret"),
			TrackingID:         v.GetString("aliexpress.tracking_id"),
			APIBaseURL:         v.GetString("aliexpress.api_base_url"),
			TimeoutSeconds:     v.GetInt("aliexpress.timeout_seconds"),
			ShipToCountry:      v.GetString("aliexpress.ship_to_country"),
			TargetCurrency:     v.GetString("aliexpress.target_currency"),
			TargetLanguage:     v.GetString("aliexpress.target_language"),
			MinRequestInterval: v.GetDuration("aliexpress.min_request_interval"),
		},
		Sync: SyncConfig{
			SchedulerEnabled:       v.GetBool("sync.scheduler_enabled"),
			Interval:               v.GetDuration("sync.interval"),
			CouponInterval:         v.GetDuration("sync.coupon_interval"),
			StaleAfter:             v.GetDuration("sync.stale_after"),
			SweepInterval:          v.GetDuration("sync.sweep_interval"),
			LockBackend:            v.GetString("sync.lock_backend"),
			LockTTL:                v.GetDuration("sync.lock_ttl"),
			ReferenceCacheTTL:      v.GetDuration("sync.reference_cache_ttl"),
			DeactivateMissingAfter: v.GetDuration("sync.deactivate_missing_after"),
		},
		Cron: CronConfig{
			Secret: v.GetString("cron.secret"),
		},
		Admin: AdminConfig{
			Token: v.GetString("admin.token"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
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
		cfg.App.Name = "electic"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
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
		cfg.Database.DBName = "electic"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
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
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Manual sync requests block until the run finishes.
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 10 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 1 << 20
	}
	if cfg.HTTP.PublicRateLimit > 0 && cfg.HTTP.PublicRateBurst == 0 {
		cfg.HTTP.PublicRateBurst = cfg.HTTP.PublicRateLimit
	}
	if cfg.AliExpress.APIBaseURL == "" {
		cfg.AliExpress.APIBaseURL = "https://api-sg.aliexpress.com/sync"
	}
	if cfg.AliExpress.TimeoutSeconds == 0 {
		cfg.AliExpress.TimeoutSeconds = 30
	}
	if cfg.AliExpress.ShipToCountry == "" {
		cfg.AliExpress.ShipToCountry = "IL"
	}
	if cfg.AliExpress.TargetCurrency == "" {
		cfg.AliExpress.TargetCurrency = "USD"
	}
	if cfg.AliExpress.TargetLanguage == "" {
		cfg.AliExpress.TargetLanguage = "EN"
	}
	if cfg.AliExpress.MinRequestInterval == 0 {
		cfg.AliExpress.MinRequestInterval = 2 * time.Second
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 24 * time.Hour
	}
	if cfg.Sync.CouponInterval == 0 {
		cfg.Sync.CouponInterval = 24 * time.Hour
	}
	if cfg.Sync.StaleAfter == 0 {
		cfg.Sync.StaleAfter = 45 * time.Minute
	}
	if cfg.Sync.SweepInterval == 0 {
		cfg.Sync.SweepInterval = 5 * time.Minute
	}
	if cfg.Sync.LockBackend == "" {
		cfg.Sync.LockBackend = LockBackendMemory
	}
	if cfg.Sync.LockTTL == 0 {
		cfg.Sync.LockTTL = 30 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "electic"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
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

	switch c.Sync.LockBackend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return fmt.Errorf("sync.lock_backend must be %q or %q, got %q", LockBackendMemory, LockBackendRedis, c.Sync.LockBackend)
	}
	if c.Sync.StaleAfter < time.Minute {
		return fmt.Errorf("sync.stale_after must be at least 1m, got %s", c.Sync.StaleAfter)
	}
	// lock_ttl bounds a scheduled run, so the sweep only ever sees dead runs
	if c.Sync.StaleAfter <= c.Sync.LockTTL {
		return fmt.Errorf("sync.stale_after (%s) must exceed sync.lock_ttl (%s)", c.Sync.StaleAfter, c.Sync.LockTTL)
	}
	if c.Sync.DeactivateMissingAfter < 0 {
		return fmt.Errorf("sync.deactivate_missing_after cannot be negative")
	}

	if c.App.Env == "production" {
		if c.AliExpress.AppKey == "" || c.AliExpress.AppSecret == "" {
			return fmt.Errorf("aliexpress.app_key and aliexpress.app_secret are required in production")
		}
		if c.Cron.Secret == "" {
			return fmt.Errorf("cron.secret is required in production")
		}
		if c.Admin.Token == "" {
			return fmt.Errorf("admin.token is required in production")
		}
		if c.Database.URL == "" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
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

// Redacted returns the DSN with the password masked, for errors and logs
func (d *DatabaseConfig) Redacted() string {
	u, err := url.Parse(d.DSN())
	if err != nil {
		return "postgres://<unparseable>"
	}
	return u.Redacted()
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
