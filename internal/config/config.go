// Package config provides configuration management for the racing data
// aggregation and analysis engine.
package config

import "fmt"

// Config represents the complete application configuration.
type Config struct {
	App            AppConfig            `mapstructure:"app" validate:"required"`
	Engine         EngineConfig         `mapstructure:"engine" validate:"required"`
	HTTPClient     HTTPClientConfig     `mapstructure:"http_client" validate:"required"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit" validate:"required"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker" validate:"required"`
	StaleCache     StaleCacheConfig     `mapstructure:"stale_cache" validate:"required"`
	Analyzers      AnalyzersConfig      `mapstructure:"analyzers" validate:"required"`
	Auditor        AuditorConfig        `mapstructure:"auditor" validate:"required"`
	API            APIConfig            `mapstructure:"api" validate:"required"`
	Database       DatabaseConfig       `mapstructure:"database" validate:"required"`
	Metrics        MetricsConfig        `mapstructure:"metrics" validate:"required"`
	DataSources    []AdapterConfig      `mapstructure:"data_sources" validate:"required,min=1,dive"`
	Schedule       ScheduleConfig       `mapstructure:"schedule" validate:"required"`
}

// AppConfig represents application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig tunes the fetch orchestrator.
type EngineConfig struct {
	MaxConcurrentRequests int `mapstructure:"max_concurrent_requests" validate:"required,gt=0"`
	CacheTTLSeconds       int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	MinRequiredAdapters   int `mapstructure:"min_required_adapters" validate:"required,gt=0"`
}

// HTTPClientConfig tunes the fetcher's transport.
type HTTPClientConfig struct {
	DefaultTimeoutSeconds int `mapstructure:"default_timeout_seconds" validate:"required,gt=0"`
	PoolConnections       int `mapstructure:"pool_connections" validate:"required,gt=0"`
	MaxKeepaliveSeconds   int `mapstructure:"max_keepalive_seconds" validate:"required,gt=0"`
	RetryMax              int `mapstructure:"retry_max" validate:"required,gte=0"`
	RetryWaitMinSeconds   int `mapstructure:"retry_wait_min_seconds" validate:"required,gt=0"`
	RetryWaitMaxSeconds   int `mapstructure:"retry_wait_max_seconds" validate:"required,gt=0"`
}

// RateLimitConfig sets the default per-adapter token bucket rate; adapters
// may override it via AdapterConfig.RequestsPerSecond.
type RateLimitConfig struct {
	DefaultRequestsPerSecond float64 `mapstructure:"default_requests_per_second" validate:"required,gt=0"`
}

// CircuitBreakerConfig tunes the per-adapter breaker.
type CircuitBreakerConfig struct {
	FailureThreshold   int `mapstructure:"failure_threshold" validate:"required,gt=0"`
	CooldownSeconds    int `mapstructure:"cooldown_seconds" validate:"required,gt=0"`
	HalfOpenMaxProbes  int `mapstructure:"half_open_max_probes" validate:"required,gt=0"`
}

// StaleCacheConfig tunes the last-known-good response cache.
type StaleCacheConfig struct {
	TTLHours int `mapstructure:"ttl_hours" validate:"required,gt=0"`
}

// AnalyzersConfig holds thresholds shared across the analyzer plugins.
type AnalyzersConfig struct {
	TrustworthyRatioMin float64 `mapstructure:"trustworthy_ratio_min" validate:"required,gt=0,lte=1"`
	MaxFieldSize        int     `mapstructure:"max_field_size" validate:"required,gt=0"`
	TinyFieldMax        int     `mapstructure:"tiny_field_max" validate:"required,gt=0"`
	GoldmineMinOdds     float64 `mapstructure:"goldmine_min_odds" validate:"required,gt=0"`
}

// AuditorConfig tunes the verdict sweep.
type AuditorConfig struct {
	LookbackHours int     `mapstructure:"lookback_hours" validate:"required,gt=0"`
	StandardBet   float64 `mapstructure:"standard_bet" validate:"required,gt=0"`
}

// APIConfig configures the HTTP surface.
type APIConfig struct {
	ListenAddr      string          `mapstructure:"listen_addr" validate:"required"`
	APIKey          string          `mapstructure:"api_key" validate:"required"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins"`
	RateLimits      APIRateLimits   `mapstructure:"rate_limits" validate:"required"`
}

// APIRateLimits holds the three route-group rate limit tiers.
type APIRateLimits struct {
	ReadRequestsPerSecond   float64 `mapstructure:"read_requests_per_second" validate:"required,gt=0"`
	WriteRequestsPerSecond  float64 `mapstructure:"write_requests_per_second" validate:"required,gt=0"`
	AdminRequestsPerSecond  float64 `mapstructure:"admin_requests_per_second" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration.
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// AdapterConfig represents a single source adapter's configuration.
type AdapterConfig struct {
	Name              string  `mapstructure:"name" validate:"required"`
	Enabled           bool    `mapstructure:"enabled"`
	Discipline        string  `mapstructure:"discipline" validate:"required,discipline"`
	APIKey            string  `mapstructure:"api_key"`
	Username          string  `mapstructure:"username"`
	Password          string  `mapstructure:"password"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents the periodic-job cadence.
type ScheduleConfig struct {
	FetchAllOddsCron string `mapstructure:"fetch_all_odds_cron" validate:"required"`
	AuditRunCron     string `mapstructure:"audit_run_cron" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode.
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string.
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
