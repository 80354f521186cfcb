package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Import    ImportConfig    `mapstructure:"import"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Mode         string        `mapstructure:"mode"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	ConnectAttempts int           `mapstructure:"connect_attempts"`
	ConnectBackoff  time.Duration `mapstructure:"connect_backoff"`
}

// StorageConfig selects the quote store backend and the raw file archive location
type StorageConfig struct {
	Driver               string        `mapstructure:"driver"` // memory | postgres
	ArchivePath          string        `mapstructure:"archive_path"`
	ArchiveRetention     time.Duration `mapstructure:"archive_retention"` // zero keeps files forever
	ArchiveSweepInterval time.Duration `mapstructure:"archive_sweep_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// AuthConfig holds session and bootstrap user configuration
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
}

// ImportConfig holds import configuration
type ImportConfig struct {
	DemoFile       string `mapstructure:"demo_file"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// RateLimitConfig limits login attempts per client IP
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix("BUDGET_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("storage.driver is postgres but database.url is empty")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	return nil
}

// loadEnvFile loads the first .env file found. Existing variables are not overridden.
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			return godotenv.Load(envFile)
		}
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds conventional bare environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.url", "BUDGET_SERVICE_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.port", "BUDGET_SERVICE_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.host", "BUDGET_SERVICE_SERVER_HOST", "HOST")
	_ = v.BindEnv("logging.level", "BUDGET_SERVICE_LOGGING_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("storage.driver", "BUDGET_SERVICE_STORAGE_DRIVER", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.archive_path", "BUDGET_SERVICE_STORAGE_ARCHIVE_PATH", "ARCHIVE_PATH")
	_ = v.BindEnv("auth.jwt_secret", "BUDGET_SERVICE_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.admin_username", "BUDGET_SERVICE_AUTH_ADMIN_USERNAME", "ADMIN_USERNAME")
	_ = v.BindEnv("auth.admin_password", "BUDGET_SERVICE_AUTH_ADMIN_PASSWORD", "ADMIN_PASSWORD")
	_ = v.BindEnv("telemetry.endpoint", "BUDGET_SERVICE_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.mode", "release")

	// Database defaults
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("database.connect_backoff", 500*time.Millisecond)

	// Storage defaults
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.archive_path", "./data/archives")
	v.SetDefault("storage.archive_retention", 365*24*time.Hour)
	v.SetDefault("storage.archive_sweep_interval", 24*time.Hour)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.session_ttl", 12*time.Hour)
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "")

	// Import defaults
	v.SetDefault("import.demo_file", "./data/demo_presupuestos.csv")
	v.SetDefault("import.max_upload_bytes", 10<<20)

	// Login rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 1)
	v.SetDefault("rate_limit.burst", 5)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "budget-service")
	v.SetDefault("telemetry.insecure", true)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}
