// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/otp-messenger/utils"
	"github.com/joho/godotenv"
)

// SMS transport modes
const (
	SMSModeSimulated = "simulated"
	SMSModeLive      = "live"
)

// Storage providers
const (
	StorageProviderSQLite = "sqlite"
	StorageProviderMemory = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	SMS        SMSConfig        `json:"sms"`
	Storage    StorageConfig    `json:"storage"`
	Contacts   ContactsConfig   `json:"contacts"`
	Compose    ComposeConfig    `json:"compose"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Deployment DeploymentConfig `json:"deployment"`
}

type ServerConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	BodyLimit         int           `json:"body_limit"`
	EnableCompression bool          `json:"enable_compression"`
	CompressionLevel  int           `json:"compression_level"`
}

type SecurityConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	CORSMaxAge       int      `json:"cors_max_age"`

	CSPPolicy      string `json:"csp_policy"`
	XFrameOptions  string `json:"x_frame_options"`
	ReferrerPolicy string `json:"referrer_policy"`
}

type SMSConfig struct {
	Mode       string        `json:"mode"` // simulated, live
	AccountSID string        `json:"account_sid"`
	AuthToken  string        `json:"-"`
	FromNumber string        `json:"from_number"`
	BaseURL    string        `json:"base_url"`
	Timeout    time.Duration `json:"timeout"` // zero keeps the HTTP transport default
}

// MissingCredentials names every unset gateway credential
func (c SMSConfig) MissingCredentials() []string {
	var missing []string
	if strings.TrimSpace(c.AccountSID) == "" {
		missing = append(missing, "SMS_ACCOUNT_SID")
	}
	if strings.TrimSpace(c.AuthToken) == "" {
		missing = append(missing, "SMS_AUTH_TOKEN")
	}
	if strings.TrimSpace(c.FromNumber) == "" {
		missing = append(missing, "SMS_FROM_NUMBER")
	}
	return missing
}

type StorageConfig struct {
	Provider    string `json:"provider"` // sqlite, memory
	SQLitePath  string `json:"sqlite_path"`
	MessagesKey string `json:"messages_key"`
}

type ContactsConfig struct {
	File string `json:"file"` // empty means the embedded seed list
}

type ComposeConfig struct {
	RedirectCountdown int           `json:"redirect_countdown"`
	RedirectTick      time.Duration `json:"redirect_tick"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	SweepInterval     time.Duration `json:"sweep_interval"`
	DrainTimeout      time.Duration `json:"drain_timeout"`
}

type LoggingConfig struct {
	Level      string `json:"level"`  // debug, info, warn, error
	Output     string `json:"output"` // stdout, file, both
	FilePath   string `json:"file_path"`
	MaxSize    int    `json:"max_size"` // MB
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"` // days
	Compress   bool   `json:"compress"`

	EnableAccessLog bool `json:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
	BuildTime   string `json:"build_time"`
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:              getEnvString("SERVER_HOST", "127.0.0.1"),
			Port:              getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:       getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:   getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			BodyLimit:         getEnvInt("SERVER_BODY_LIMIT", 1*1024*1024),
			EnableCompression: getEnvBool("SERVER_ENABLE_COMPRESSION", true),
			CompressionLevel:  getEnvInt("SERVER_COMPRESSION_LEVEL", 1),
		},
		Security: SecurityConfig{
			AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}),
			AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
			CORSMaxAge:       getEnvInt("CORS_MAX_AGE", utils.CORSMaxAge),
			CSPPolicy:        getEnvString("CSP_POLICY", "default-src 'self'"),
			XFrameOptions:    getEnvString("X_FRAME_OPTIONS", "DENY"),
			ReferrerPolicy:   getEnvString("REFERRER_POLICY", "strict-origin-when-cross-origin"),
		},
		SMS: SMSConfig{
			Mode:       strings.ToLower(getEnvString("SMS_MODE", SMSModeSimulated)),
			AccountSID: getEnvString("SMS_ACCOUNT_SID", ""),
			AuthToken:  getEnvString("SMS_AUTH_TOKEN", ""),
			FromNumber: getEnvString("SMS_FROM_NUMBER", ""),
			BaseURL:    strings.TrimRight(getEnvString("SMS_BASE_URL", "https://api.twilio.com"), "/"),
			Timeout:    getEnvDuration("SMS_TIMEOUT", 0),
		},
		Storage: StorageConfig{
			Provider:    strings.ToLower(getEnvString("STORAGE_PROVIDER", StorageProviderSQLite)),
			SQLitePath:  getEnvString("STORAGE_SQLITE_PATH", "otp-messenger.db"),
			MessagesKey: getEnvString("STORAGE_MESSAGES_KEY", utils.MessagesStorageKey),
		},
		Contacts: ContactsConfig{
			File: getEnvString("CONTACTS_FILE", ""),
		},
		Compose: ComposeConfig{
			RedirectCountdown: getEnvInt("REDIRECT_COUNTDOWN", utils.RedirectCountdownSteps),
			RedirectTick:      getEnvDuration("REDIRECT_TICK", utils.RedirectTickInterval),
			IdleTimeout:       getEnvDuration("COMPOSE_IDLE_TIMEOUT", utils.ComposeIdleTimeout),
			SweepInterval:     getEnvDuration("COMPOSE_SWEEP_INTERVAL", utils.ComposeSweepInterval),
			DrainTimeout:      getEnvDuration("COMPOSE_DRAIN_TIMEOUT", utils.ComposeDrainTimeout),
		},
		Logging: LoggingConfig{
			Level:           getEnvString("LOG_LEVEL", "info"),
			Output:          getEnvString("LOG_OUTPUT", "stdout"),
			FilePath:        getEnvString("LOG_FILE_PATH", "logs/otp-messenger.log"),
			MaxSize:         getEnvInt("LOG_MAX_SIZE", 50),
			MaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAge:          getEnvInt("LOG_MAX_AGE", 28),
			Compress:        getEnvBool("LOG_COMPRESS", true),
			EnableAccessLog: getEnvBool("LOG_ENABLE_ACCESS_LOG", true),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
		Deployment: DeploymentConfig{
			Environment: getEnvString("APP_ENV", "development"),
			Version:     getEnvString("APP_VERSION", "dev"),
			CommitHash:  getEnvString("COMMIT_HASH", ""),
			BuildTime:   getEnvString("BUILD_TIME", ""),
		},
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.SMS.Mode == SMSModeSimulated {
		if missing := cfg.SMS.MissingCredentials(); len(missing) > 0 {
			log.Printf("Warning: SMS credentials not set (%s); sends will be rejected", strings.Join(missing, ", "))
		}
	}

	return cfg, nil
}

// loadEnvFile loads variables from path when it exists; variables already set win
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ValidateConfig validates the configuration and reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}

	switch cfg.SMS.Mode {
	case SMSModeSimulated:
	case SMSModeLive:
		for _, key := range cfg.SMS.MissingCredentials() {
			errors = append(errors, fmt.Sprintf("%s is required when SMS_MODE=live", key))
		}
		if cfg.SMS.BaseURL == "" {
			errors = append(errors, "SMS_BASE_URL is required when SMS_MODE=live")
		}
	default:
		errors = append(errors, fmt.Sprintf("SMS_MODE must be one of: [%s %s]", SMSModeSimulated, SMSModeLive))
	}
	if cfg.SMS.Timeout < 0 {
		errors = append(errors, "SMS_TIMEOUT must not be negative")
	}

	switch cfg.Storage.Provider {
	case StorageProviderSQLite:
		if cfg.Storage.SQLitePath == "" {
			errors = append(errors, "STORAGE_SQLITE_PATH is required for sqlite storage")
		}
	case StorageProviderMemory:
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_PROVIDER must be one of: [%s %s]", StorageProviderSQLite, StorageProviderMemory))
	}
	if cfg.Storage.MessagesKey == "" {
		errors = append(errors, "STORAGE_MESSAGES_KEY must not be empty")
	}

	if cfg.Compose.RedirectCountdown <= 0 {
		errors = append(errors, "REDIRECT_COUNTDOWN must be positive")
	}
	if cfg.Compose.RedirectTick <= 0 {
		errors = append(errors, "REDIRECT_TICK must be positive")
	}
	if cfg.Compose.IdleTimeout <= 0 {
		errors = append(errors, "COMPOSE_IDLE_TIMEOUT must be positive")
	}
	if cfg.Compose.SweepInterval <= 0 {
		errors = append(errors, "COMPOSE_SWEEP_INTERVAL must be positive")
	}
	if cfg.Compose.DrainTimeout <= 0 {
		errors = append(errors, "COMPOSE_DRAIN_TIMEOUT must be positive")
	}

	if cfg.Logging.Level != "" {
		validLevels := []string{"debug", "info", "warn", "error"}
		valid := false
		for _, level := range validLevels {
			if cfg.Logging.Level == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
		}
	}
	switch cfg.Logging.Output {
	case "stdout", "file", "both":
	default:
		errors = append(errors, "LOG_OUTPUT must be one of: [stdout file both]")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
