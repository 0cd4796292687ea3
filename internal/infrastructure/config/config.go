// Package config loads the service configuration with viper
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	EnableCORS        bool          `mapstructure:"enable_cors"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver             string        `mapstructure:"driver"`
	Path               string        `mapstructure:"path"`
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Database           string        `mapstructure:"database"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `mapstructure:"conn_max_idle_time"`
	ReadReplicas       []string      `mapstructure:"read_replicas"`
	LoadBalancePolicy  string        `mapstructure:"load_balance_policy"`
	LogLevel           string        `mapstructure:"log_level"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
	Seed               bool          `mapstructure:"seed"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	EventChannel string        `mapstructure:"event_channel"`
}

// CacheConfig contains cache TTLs
type CacheConfig struct {
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

// PlannerConfig tunes diet plan generation
type PlannerConfig struct {
	DefaultDurationDays int           `mapstructure:"default_duration_days"`
	MaxDurationDays     int           `mapstructure:"max_duration_days"`
	FallbackRecipeID    string        `mapstructure:"fallback_recipe_id"`
	CalorieBand         float64       `mapstructure:"calorie_band"`
	RandomSeed          int64         `mapstructure:"random_seed"`
	LockTTL             time.Duration `mapstructure:"lock_ttl"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool    `mapstructure:"enable_metrics"`
	MetricsPath     string  `mapstructure:"metrics_path"`
	EnableTracing   bool    `mapstructure:"enable_tracing"`
	JaegerEndpoint  string  `mapstructure:"jaeger_endpoint"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
	HealthCheckPath string  `mapstructure:"health_check_path"`
	ReadinessPath   string  `mapstructure:"readiness_path"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enable          bool          `mapstructure:"enable"`
	RequestsPerMin  int           `mapstructure:"requests_per_min"`
	BurstSize       int           `mapstructure:"burst_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Load reads configuration from defaults, an optional YAML file and
// DIETPLANNER_* environment variables, in increasing precedence
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("DIETPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var searchPaths = []string{".", "./configs", "/etc/dietplanner"}

var defaults = map[string]interface{}{
	"app.name":        "DietPlanner",
	"app.version":     "1.0.0",
	"app.environment": "development",
	"app.debug":       false,
	"app.log_level":   "info",
	"app.log_format":  "json",

	"server.host":               "0.0.0.0",
	"server.port":               8080,
	"server.read_timeout":       "15s",
	"server.write_timeout":      "15s",
	"server.idle_timeout":       "60s",
	"server.max_header_bytes":   1 << 20,
	"server.shutdown_timeout":   "30s",
	"server.request_timeout":    "30s",
	"server.enable_cors":        true,
	"server.allowed_origins":    []string{"*"},
	"server.enable_compression": true,

	"database.driver":               "sqlite",
	"database.path":                 "dietplanner.db",
	"database.host":                 "localhost",
	"database.port":                 5432,
	"database.database":             "dietplanner",
	"database.ssl_mode":             "disable",
	"database.max_open_conns":       25,
	"database.max_idle_conns":       5,
	"database.conn_max_lifetime":    "1h",
	"database.conn_max_idle_time":   "10m",
	"database.load_balance_policy":  "round_robin",
	"database.log_level":            "warn",
	"database.slow_query_threshold": "200ms",
	"database.auto_migrate":         true,
	"database.seed":                 true,

	"redis.enabled":       false,
	"redis.host":          "localhost",
	"redis.port":          6379,
	"redis.database":      0,
	"redis.max_retries":   3,
	"redis.pool_size":     10,
	"redis.dial_timeout":  "5s",
	"redis.read_timeout":  "3s",
	"redis.write_timeout": "3s",
	"redis.key_prefix":    "dietplanner:",
	"redis.event_channel": "dietplanner:events",

	"cache.catalog_ttl": "10m",

	"planner.default_duration_days": 7,
	"planner.max_duration_days":     90,
	"planner.fallback_recipe_id":    "RCP001",
	"planner.calorie_band":          400,
	"planner.random_seed":           0,
	"planner.lock_ttl":              "30s",

	"monitoring.enable_metrics":    true,
	"monitoring.metrics_path":      "/metrics",
	"monitoring.enable_tracing":    false,
	"monitoring.jaeger_endpoint":   "http://localhost:14268/api/traces",
	"monitoring.sampling_rate":     0.1,
	"monitoring.health_check_path": "/health",
	"monitoring.readiness_path":    "/ready",

	"rate_limit.enable":           true,
	"rate_limit.requests_per_min": 120,
	"rate_limit.burst_size":       20,
	"rate_limit.cleanup_interval": "1m",
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.App.Name != "", "app.name is required")
	check(c.App.LogFormat == "json" || c.App.LogFormat == "console",
		"app.log_format must be json or console, got %q", c.App.LogFormat)
	check(c.Server.Port >= 1 && c.Server.Port <= 65535, "server.port must be between 1 and 65535")

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		check(c.Database.Database != "", "database.database is required for postgres")
	default:
		check(false, "database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	check(c.Planner.DefaultDurationDays >= 1, "planner.default_duration_days must be positive")
	check(c.Planner.MaxDurationDays >= c.Planner.DefaultDurationDays,
		"planner.max_duration_days must be at least planner.default_duration_days")
	check(c.Planner.CalorieBand > 0, "planner.calorie_band must be positive")
	check(c.Planner.FallbackRecipeID != "", "planner.fallback_recipe_id is required")

	check(c.Monitoring.SamplingRate >= 0 && c.Monitoring.SamplingRate <= 1,
		"monitoring.sampling_rate must be between 0 and 1")
	if c.RateLimit.Enable {
		check(c.RateLimit.RequestsPerMin > 0, "rate_limit.requests_per_min must be positive")
	}

	return errors.Join(errs...)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the postgres connection string
func (c *Config) GetDSN() string {
	return c.Database.DSNForHost(c.Database.Host)
}

// DSNForHost returns the postgres connection string for host, used for
// read replicas that share credentials with the primary
func (d DatabaseConfig) DSNForHost(host string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		d.Port,
		d.Username,
		d.Password,
		d.Database,
		d.SSLMode,
	)
}

// RedisAddr returns host:port of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
