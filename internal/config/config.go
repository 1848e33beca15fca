package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
)

const (
	DefaultSessionTTL      = 24 * time.Hour
	DefaultJanitorInterval = time.Minute
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost  string
	ServerPort  string
	RedisURL    string
	PostgresURL string
	Token       string
	Prefork     bool

	// SessionTTL is how long an untouched game stays available.
	SessionTTL time.Duration

	// JanitorInterval is how often expired games are dropped from memory.
	JanitorInterval time.Duration

	// Game defaults, used when a request does not specify them.
	DefaultSize      int
	DefaultAutomated othello.Player
	DefaultPolicy    string
}

// LoadServerConfig loads configuration from environment variables. A .env
// file in the working directory is read first if it exists.
func LoadServerConfig() *ServerConfig {
	loadDotEnv()

	return &ServerConfig{
		ServerHost:       getEnvMust("REVERSI_SERVER_HOST"),
		ServerPort:       getEnvMust("REVERSI_SERVER_PORT"),
		RedisURL:         getEnvMust("REVERSI_REDIS_URL"),
		PostgresURL:      getEnvMust("REVERSI_POSTGRES_URL"),
		Token:            getEnvMust("REVERSI_SERVER_TOKEN"),
		Prefork:          getEnvMustBool("REVERSI_SERVER_PREFORK"),
		SessionTTL:       getEnvDuration("REVERSI_SESSION_TTL", DefaultSessionTTL),
		JanitorInterval:  getEnvDuration("REVERSI_JANITOR_INTERVAL", DefaultJanitorInterval),
		DefaultSize:      getEnvSize("REVERSI_DEFAULT_SIZE"),
		DefaultAutomated: getEnvPlayer("REVERSI_DEFAULT_AUTOMATED"),
		DefaultPolicy:    getEnvDefault("REVERSI_DEFAULT_POLICY", othello.PolicyGreedy),
	}
}

// GameDefaults returns the settings used for fields a new game request leaves out.
func (cfg *ServerConfig) GameDefaults() models.GameSettings {
	return models.GameSettings{
		Size:      cfg.DefaultSize,
		Automated: cfg.DefaultAutomated,
		Policy:    cfg.DefaultPolicy,
	}
}

// PlayConfig holds the defaults of the terminal client.
type PlayConfig struct {
	Size      int
	Automated othello.Player
	Policy    string
}

// LoadPlayConfig loads the terminal client defaults. None of the variables are required.
func LoadPlayConfig() *PlayConfig {
	loadDotEnv()

	return &PlayConfig{
		Size:      getEnvSize("REVERSI_DEFAULT_SIZE"),
		Automated: getEnvPlayer("REVERSI_DEFAULT_AUTOMATED"),
		Policy:    getEnvDefault("REVERSI_DEFAULT_POLICY", othello.PolicyGreedy),
	}
}

// Settings returns the game settings of the terminal client.
func (cfg *PlayConfig) Settings() models.GameSettings {
	return models.GameSettings{
		Size:      cfg.Size,
		Automated: cfg.Automated,
		Policy:    cfg.Policy,
	}
}

// ClientConfig holds the details needed to reach a running server.
type ClientConfig struct {
	ServerURL string

	// Token is only needed for the stats endpoint.
	Token string
}

// LoadClientConfig loads the remote client configuration. REVERSI_SERVER_URL is required.
func LoadClientConfig() *ClientConfig {
	loadDotEnv()

	return &ClientConfig{
		ServerURL: getEnvMust("REVERSI_SERVER_URL"),
		Token:     os.Getenv("REVERSI_SERVER_TOKEN"),
	}
}

func loadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvMustBool(key string) bool {
	value := getEnvMust(key)

	if value != "true" && value != "false" {
		slog.Error("Cannot load environment variable, it must be \"true\" or \"false\"", "key", key, "value", value)
		os.Exit(1)
	}

	return value == "true"
}

func getEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		slog.Error("Cannot load environment variable, it must be a positive duration", "key", key, "value", value)
		os.Exit(1)
	}

	return duration
}

func getEnvSize(key string) int {
	value := os.Getenv(key)
	if value == "" {
		return othello.DefaultSize
	}

	size, err := strconv.Atoi(value)
	if err == nil {
		err = othello.ValidateSize(size)
	}

	if err != nil {
		slog.Error("Cannot load environment variable", "key", key, "value", value, "error", err)
		os.Exit(1)
	}

	return size
}

func getEnvPlayer(key string) othello.Player {
	player, err := othello.ParsePlayer(os.Getenv(key))
	if err != nil {
		slog.Error("Cannot load environment variable", "key", key, "error", err)
		os.Exit(1)
	}
	return player
}
