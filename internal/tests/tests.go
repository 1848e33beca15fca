package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy/reversi/internal"
	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/lk16/flippy/reversi/internal/repository"
	"github.com/lk16/flippy/reversi/internal/session"
	"github.com/stretchr/testify/require"
)

const TestToken = "test-token"

// NewApp creates an app backed by in-memory repositories.
func NewApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.ServerConfig{
		Token:           TestToken,
		SessionTTL:      time.Hour,
		JanitorInterval: time.Minute,
		DefaultSize:     othello.DefaultSize,
		DefaultPolicy:   othello.PolicyGreedy,
	}

	manager := session.NewManager(
		repository.NewMemorySessionRepository(),
		repository.NewMemoryArchiveRepository(),
		cfg.SessionTTL,
	)

	return internal.BuildApp(cfg, manager, io.Discard)
}

// Do sends a request to the app. A non-nil body is sent as JSON.
func Do(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = resp.Body.Close()
	})

	return resp
}

// Decode reads a JSON response body.
func Decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var value T
	err := json.NewDecoder(resp.Body).Decode(&value)
	require.NoError(t, err)

	return value
}
