// Package config loads the service configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/graph"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/core/notice"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/internal/infrastructure/logging"
	"github.com/jeyasurya-v/Chatbot-Flow-Builder/pkg/serialization"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreNone   = "none"
)

// Config holds all configuration for the flow builder service
type Config struct {
	Server  ServerConfig
	Editor  EditorConfig
	Storage StorageConfig
	App     AppConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type EditorConfig struct {
	NoticeTTL       time.Duration
	RejectSelfLoops bool
	CheckCycles     bool
}

type StorageConfig struct {
	Backend     string
	SQLiteDSN   string
	Codec       string
	Compression string
}

type AppConfig struct {
	Environment string
	LogLevel    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnvWithDefault("CHATFLOW_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("CHATFLOW_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Editor: EditorConfig{
			NoticeTTL:       getEnvAsDuration("CHATFLOW_NOTICE_TTL", notice.DefaultTTL),
			RejectSelfLoops: getEnvAsBool("CHATFLOW_REJECT_SELF_LOOPS", false),
			CheckCycles:     getEnvAsBool("CHATFLOW_CHECK_CYCLES", false),
		},
		Storage: StorageConfig{
			Backend:     getEnvWithDefault("CHATFLOW_STORE", StoreMemory),
			SQLiteDSN:   getEnvWithDefault("CHATFLOW_SQLITE_DSN", "chatflow.db"),
			Codec:       getEnvWithDefault("CHATFLOW_CODEC", "msgpack"),
			Compression: getEnvWithDefault("CHATFLOW_COMPRESSION", string(serialization.CompressionZstd)),
		},
		App: AppConfig{
			Environment: getEnvWithDefault("CHATFLOW_ENV", "development"),
			LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("CHATFLOW_ADDR is required")
	}

	if c.Editor.NoticeTTL <= 0 {
		return fmt.Errorf("CHATFLOW_NOTICE_TTL must be positive")
	}

	switch c.Storage.Backend {
	case StoreMemory, StoreNone:
	case StoreSQLite:
		if c.Storage.SQLiteDSN == "" {
			return fmt.Errorf("CHATFLOW_SQLITE_DSN is required for the sqlite store")
		}
	default:
		return fmt.Errorf("CHATFLOW_STORE must be one of memory, sqlite, none: got %q", c.Storage.Backend)
	}

	if _, err := c.Serializer(); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(c.App.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return nil
}

// Serializer builds the snapshot serializer for the sqlite store
func (c *Config) Serializer() (*serialization.Serializer, error) {
	codec, err := serialization.CodecByName(c.Storage.Codec)
	if err != nil {
		return nil, fmt.Errorf("CHATFLOW_CODEC: %w", err)
	}
	comp, err := serialization.ParseCompression(c.Storage.Compression)
	if err != nil {
		return nil, fmt.Errorf("CHATFLOW_COMPRESSION: %w", err)
	}
	return serialization.NewSerializer(serialization.SerializationConfig{
		Codec:       codec,
		Compression: comp,
	}), nil
}

// ConnectionPolicy returns the connection rules for new sessions
func (c *Config) ConnectionPolicy() graph.ConnectionPolicy {
	return graph.ConnectionPolicy{RejectSelfLoops: c.Editor.RejectSelfLoops}
}

// Helper functions for environment variable parsing

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr := os.Getenv(key); valueStr != "" {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
