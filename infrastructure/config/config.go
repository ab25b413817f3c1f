package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Persistence configuration
	PersistenceBackend string // "memory" or "dynamodb"
	AWSRegion          string
	CommandTable       string
	ViewTable          string
	EventBusName       string

	// Messaging
	MessagingBackend string // "inmemory" or "eventbridge"

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		PersistenceBackend: getEnv("PERSISTENCE_BACKEND", "memory"),
		AWSRegion:          getEnv("AWS_REGION", "us-west-2"),
		CommandTable:       getEnv("COMMAND_TABLE", "examples"),
		ViewTable:          getEnv("VIEW_TABLE", "examples_view"),
		EventBusName:       getEnv("EVENT_BUS_NAME", "oddly-events"),

		MessagingBackend: getEnv("MESSAGING_BACKEND", "inmemory"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "oddly-infrastructures"),

		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.PersistenceBackend == "memory" {
			return fmt.Errorf("memory persistence is not allowed in production")
		}
	}
	switch c.PersistenceBackend {
	case "memory", "dynamodb":
	default:
		return fmt.Errorf("unknown persistence backend %q", c.PersistenceBackend)
	}
	switch c.MessagingBackend {
	case "inmemory", "eventbridge":
	default:
		return fmt.Errorf("unknown messaging backend %q", c.MessagingBackend)
	}
	return nil
}

// IsProduction reports whether this is a production deployment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
