// Package config provides configuration management for the catalog
// server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultAuthMode        = "none"
	DefaultDataFile        = "products.json"
	DefaultTokenTTL        = time.Hour
)

// Environment variable names.
const (
	EnvServerHost      = "APP_SERVER_HOST"
	EnvServerPort      = "APP_SERVER_PORT"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvDebug           = "APP_DEBUG"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvDataFile        = "APP_DATA_FILE"
	EnvAuthMode        = "APP_AUTH_MODE"
	EnvJWTSecret       = "APP_JWT_SECRET" //nolint:gosec // env var name, not a credential
	EnvTokenTTL        = "APP_TOKEN_TTL"
	EnvAuthUsers       = "APP_AUTH_USERS"
)

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerHost      string
	ServerPort      int
	LogLevel        string
	Debug           bool // Must stay disabled in any non-development deployment.
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	// Catalog storage.
	DataFile string

	// Authentication mode: none, jwt.
	AuthMode string

	// JWT settings (format of AuthUsers: "user:bcrypt_hash:role,...").
	JWTSecret string
	TokenTTL  time.Duration
	AuthUsers string
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidDataFile        = errors.New("data file path must not be empty")
	ErrInvalidAuthMode        = errors.New("auth mode must be one of: none, jwt")
	ErrInvalidTokenTTL        = errors.New("token TTL must be positive")
	ErrJWTSecretRequired      = errors.New(
		"JWT secret must be set when auth mode is jwt",
	)
	ErrAuthUsersRequired = errors.New(
		"auth users must be set when auth mode is jwt",
	)
)

// Load reads configuration from environment variables with defaults.
// Environment variables have priority over default values. A .env file
// in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      DefaultServerPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		DataFile:        DefaultDataFile,
		AuthMode:        DefaultAuthMode,
		TokenTTL:        DefaultTokenTTL,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if err := c.loadServerEnv(); err != nil {
		return err
	}

	if err := c.loadAuthEnv(); err != nil {
		return err
	}

	return nil
}

// loadServerEnv loads server-related environment variables.
func (c *Config) loadServerEnv() error {
	if val := os.Getenv(EnvServerHost); val != "" {
		c.ServerHost = val
	}

	if val := os.Getenv(EnvServerPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
		}
		c.ServerPort = port
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvDebug); val != "" {
		debug, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvDebug, err)
		}
		c.Debug = debug
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	if val := os.Getenv(EnvDataFile); val != "" {
		c.DataFile = val
	}

	return nil
}

// loadAuthEnv loads authentication environment variables.
func (c *Config) loadAuthEnv() error {
	if val := os.Getenv(EnvAuthMode); val != "" {
		c.AuthMode = val
	}

	if val := os.Getenv(EnvJWTSecret); val != "" {
		c.JWTSecret = val
	}

	if val := os.Getenv(EnvTokenTTL); val != "" {
		ttl, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTokenTTL, err)
		}
		c.TokenTTL = ttl
	}

	if val := os.Getenv(EnvAuthUsers); val != "" {
		c.AuthUsers = val
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	return nil
}

// validateServer validates server-related configuration.
func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if c.DataFile == "" {
		return ErrInvalidDataFile
	}

	return nil
}

// validateAuth validates authentication configuration.
func (c *Config) validateAuth() error {
	switch c.AuthMode {
	case "", "none":
	case "jwt":
		if c.JWTSecret == "" {
			return ErrJWTSecretRequired
		}
		if c.AuthUsers == "" {
			return ErrAuthUsersRequired
		}
	default:
		return ErrInvalidAuthMode
	}

	if c.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
