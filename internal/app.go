package internal

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/middleware"
	"github.com/lk16/flippy/reversi/internal/repository"
	"github.com/lk16/flippy/reversi/internal/routes"
	"github.com/lk16/flippy/reversi/internal/services"
	"github.com/lk16/flippy/reversi/internal/session"
)

const (
	defaultConcurrency  = 256 * 1024 // Maximum number of concurrent connections per worker
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 5 * time.Second
	defaultBodyLimit    = 64 * 1024 // 64KB
)

// Server bundles everything cmd/server needs to run and shut down.
type Server struct {
	App      *fiber.App
	Config   *config.ServerConfig
	Manager  *session.Manager
	Services *services.Services
}

// BuildApp creates the Fiber app around a game manager. It does not connect
// to anything, so tests can pass a manager backed by in-memory repositories.
func BuildApp(cfg *config.ServerConfig, manager *session.Manager, logOutput io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:      cfg.Prefork,
		Concurrency:  defaultConcurrency,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BodyLimit:    defaultBodyLimit,
	})

	// Setup game manager and config in Fiber app
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("manager", manager)
		c.Locals("config", cfg)
		return c.Next()
	})

	// Add logging middleware
	app.Use(middleware.Logging(logOutput))

	// Setup all routes
	routes.SetupRoutes(app)

	return app
}

// SetupApp loads the configuration, connects to Redis and Postgres and builds the app.
func SetupApp() *Server {
	// Load configuration
	cfg := config.LoadServerConfig()

	// Initialize services
	services, err := services.InitServices(cfg)
	if err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	manager := session.NewManager(
		repository.NewSessionRepository(services.Redis),
		repository.NewArchiveRepository(services.Postgres),
		cfg.SessionTTL,
	)

	return &Server{
		App:      BuildApp(cfg, manager, os.Stdout),
		Config:   cfg,
		Manager:  manager,
		Services: services,
	}
}
