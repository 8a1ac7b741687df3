package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wayfarerhq/route-gateway/services/providers/offline"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Network       NetworkProviderConfig
	Offline       OfflineProviderConfig
	Connectivity  ConnectivityConfig
	Auth          AuthConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// NetworkProviderConfig holds the remote directions API configuration
type NetworkProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OfflineProviderConfig holds the on-device engine configuration
type OfflineProviderConfig struct {
	// Coverage lists tile coverage regions as
	// "minLat,minLon,maxLat,maxLon" boxes separated by ';'. Empty means
	// unrestricted coverage.
	Coverage []offline.Region
}

// ConnectivityConfig holds reachability probe configuration
type ConnectivityConfig struct {
	// ProbeAddr is the host:port the TCP reachability probe dials.
	ProbeAddr    string
	ProbeTimeout time.Duration
	Interval     time.Duration

	// ForceOffline pins the monitor to disconnected; no probing happens.
	ForceOffline bool
}

// AuthConfig holds bearer-token authentication configuration
type AuthConfig struct {
	// JWTSecret is the HS256 signing secret. When empty the route API is
	// left unauthenticated (development setups).
	JWTSecret string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	coverage, err := parseCoverage(getEnv("OFFLINE_COVERAGE", ""))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Network: NetworkProviderConfig{
			BaseURL: getEnv("DIRECTIONS_BASE_URL", ""),
			APIKey:  getEnv("DIRECTIONS_API_KEY", ""),
			Timeout: getEnvAsDuration("DIRECTIONS_TIMEOUT", 15*time.Second),
		},
		Offline: OfflineProviderConfig{
			Coverage: coverage,
		},
		Connectivity: ConnectivityConfig{
			ProbeAddr:    getEnv("CONNECTIVITY_PROBE_ADDR", "1.1.1.1:443"),
			ProbeTimeout: getEnvAsDuration("CONNECTIVITY_PROBE_TIMEOUT", 3*time.Second),
			Interval:     getEnvAsDuration("CONNECTIVITY_INTERVAL", 15*time.Second),
			ForceOffline: getEnvAsBool("CONNECTIVITY_FORCE_OFFLINE", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Network.BaseURL == "" {
		return fmt.Errorf("directions base URL is required: set DIRECTIONS_BASE_URL")
	}
	if c.IsProduction() && c.Network.APIKey == "" {
		return fmt.Errorf("directions API key is required in production")
	}
	if c.Connectivity.ProbeAddr == "" && !c.Connectivity.ForceOffline {
		return fmt.Errorf("connectivity probe address is required")
	}
	if c.Connectivity.Interval <= 0 {
		return fmt.Errorf("connectivity interval must be positive")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// parseCoverage parses "minLat,minLon,maxLat,maxLon[;...]" into regions.
func parseCoverage(s string) ([]offline.Region, error) {
	if s == "" {
		return nil, nil
	}
	var regions []offline.Region
	for _, box := range strings.Split(s, ";") {
		parts := strings.Split(strings.TrimSpace(box), ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("coverage region %q: want 4 comma-separated values", box)
		}
		vals := make([]float64, 4)
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("coverage region %q: %w", box, err)
			}
			vals[i] = v
		}
		region := offline.Region{MinLat: vals[0], MinLon: vals[1], MaxLat: vals[2], MaxLon: vals[3]}
		if region.MinLat > region.MaxLat || region.MinLon > region.MaxLon {
			return nil, fmt.Errorf("coverage region %q: min exceeds max", box)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
