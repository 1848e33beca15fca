package services

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/redis/go-redis/v9"
)

// Services contains the connections to the external services.
type Services struct {
	Postgres *sqlx.DB
	Redis    *redis.Client
}

func InitServices(cfg *config.ServerConfig) (*Services, error) {
	// Initialize database
	postgres, err := InitPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	// Initialize Redis
	redis, err := InitRedis(cfg.RedisURL)
	if err != nil {
		_ = postgres.Close()
		return nil, err
	}

	return &Services{
		Postgres: postgres,
		Redis:    redis,
	}, nil
}

// Close closes all connections.
func (s *Services) Close() error {
	var errs []error

	if s.Postgres != nil {
		if err := s.Postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing postgres: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
