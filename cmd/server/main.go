package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lk16/flippy/reversi/internal"
	"github.com/lk16/flippy/reversi/internal/config"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	config.SetLogLevel()

	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}

func run() error {
	// Setup app
	server := internal.SetupApp()
	defer func() {
		if err := server.Services.Close(); err != nil {
			slog.Error("Failed to close services", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Start server
	g.Go(func() error {
		address := server.Config.ServerHost + ":" + server.Config.ServerPort
		return server.App.Listen(address)
	})

	// Drop idle games from memory
	g.Go(func() error {
		return server.Manager.RunJanitor(ctx, server.Config.JanitorInterval)
	})

	// Stop the server when a signal arrives or another goroutine fails
	g.Go(func() error {
		<-ctx.Done()
		return server.App.ShutdownWithTimeout(shutdownTimeout)
	})

	return g.Wait()
}
