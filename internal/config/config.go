package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Gateway   GatewayConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Driver          string
	SQLitePath      string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool
}

type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// GatewayConfig configures the client side of the list backend
type GatewayConfig struct {
	BaseURL             string
	UserID              string
	Timeout             time.Duration
	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration
}

func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "5000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite)),
			SQLitePath:      getEnv("SQLITE_PATH", "grocery.db"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "grocery_user"),
			Password:        getEnv("DB_PASSWORD", "grocery_password"),
			Name:            getEnv("DB_NAME", "grocery_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			LogQueries:      getBoolEnv("DB_LOG_QUERIES", false),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 20),
			Burst:             getIntEnv("RATE_LIMIT_BURST", 40),
		},
		Gateway: GatewayConfig{
			BaseURL:             strings.TrimRight(getEnv("GROCERY_API_URL", "http://localhost:5000"), "/"),
			UserID:              getEnv("GROCERY_USER_ID", ""),
			Timeout:             getDurationEnv("GATEWAY_TIMEOUT", 10*time.Second),
			BreakerMaxFailures:  getIntEnv("GATEWAY_CB_MAX_FAILURES", 5),
			BreakerResetTimeout: getDurationEnv("GATEWAY_CB_RESET_TIMEOUT", 30*time.Second),
		},
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	return config
}

// Validate reports configuration values the binaries cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver: %s", c.Database.Driver)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive (rps=%d, burst=%d)", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}

	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("GROCERY_API_URL must not be empty")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Address returns host:port for the HTTP listener
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadCORSAllowOrigins retrieves CORS allowed origins from environment or returns default
func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			log.Println("WARNING: CORS_ALLOW_ORIGINS not set in production environment, defaulting to '*' (all origins)")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	return origins
}
