package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lk16/flippy/reversi/internal/config"
	"github.com/lk16/flippy/reversi/internal/models"
)

const (
	clientTimeout = 5 * time.Second
)

// APIError is returned when the server responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the game API of a running server.
type Client struct {
	// config contains details on how to connect to the server
	config *config.ClientConfig

	http *http.Client
}

func NewClient(config *config.ClientConfig) *Client {
	client := &Client{
		config: config,
		http: &http.Client{
			Timeout: clientTimeout,
		},
	}

	slog.Debug("New API client created", "server_url", config.ServerURL)

	return client
}

func (c *Client) logRequestAsCurl(req *http.Request) {
	// Do not build string if we're not logging it
	if !slog.Default().Enabled(req.Context(), slog.LevelDebug) {
		return
	}

	var builder strings.Builder
	builder.WriteString("curl -X ")
	builder.WriteString(req.Method)
	builder.WriteString(" '")
	builder.WriteString(req.URL.String())
	builder.WriteString("'")

	for key, values := range req.Header {
		for _, value := range values {
			builder.WriteString(" -H '")
			builder.WriteString(strings.ToLower(key))
			builder.WriteString(": ")
			builder.WriteString(value)
			builder.WriteString("'")
		}
	}

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			slog.Error("Failed to read request body", "error", err)
		}

		if len(body) > 0 {
			builder.WriteString(" -d '")
			builder.WriteString(strings.ReplaceAll(string(body), "'", "'\\''"))
			builder.WriteString("'")
		}

		// Restore the original body
		req.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	slog.Debug("Sending request", "command", builder.String())
}

// request sends a request and decodes the JSON response into result, unless result is nil.
func (c *Client) request(ctx context.Context, method string, path string, payload any, result any) error {
	var body io.Reader

	if payload == nil {
		body = http.NoBody
	} else {
		buf := &bytes.Buffer{}
		err := json.NewEncoder(buf).Encode(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.config.ServerURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.config.Token != "" {
		req.Header.Set("X-Token", c.config.Token)
	}

	c.logRequestAsCurl(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	slog.Debug("Response", "status", resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

		var errResp models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}

		return apiErr
	}

	if result == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func gamePath(id string, suffix string) string {
	return "/api/games/" + url.PathEscape(id) + suffix
}

func (c *Client) CreateGame(ctx context.Context, req models.NewGameRequest) (models.GameResponse, error) {
	var game models.GameResponse
	err := c.request(ctx, http.MethodPost, "/api/games", req, &game)
	if err != nil {
		return models.GameResponse{}, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (c *Client) GetGame(ctx context.Context, id string) (models.GameResponse, error) {
	var game models.GameResponse
	err := c.request(ctx, http.MethodGet, gamePath(id, ""), nil, &game)
	if err != nil {
		return models.GameResponse{}, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (c *Client) ActivateCell(ctx context.Context, id string, move models.MoveRequest) (models.GameResponse, error) {
	var game models.GameResponse
	err := c.request(ctx, http.MethodPost, gamePath(id, "/moves"), move, &game)
	if err != nil {
		return models.GameResponse{}, fmt.Errorf("failed to activate cell: %w", err)
	}
	return game, nil
}

func (c *Client) Reset(ctx context.Context, id string) (models.GameResponse, error) {
	var game models.GameResponse
	err := c.request(ctx, http.MethodPost, gamePath(id, "/reset"), nil, &game)
	if err != nil {
		return models.GameResponse{}, fmt.Errorf("failed to reset game: %w", err)
	}
	return game, nil
}

func (c *Client) Undo(ctx context.Context, id string) (models.GameResponse, error) {
	var game models.GameResponse
	err := c.request(ctx, http.MethodPost, gamePath(id, "/undo"), nil, &game)
	if err != nil {
		return models.GameResponse{}, fmt.Errorf("failed to undo move: %w", err)
	}
	return game, nil
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	err := c.request(ctx, http.MethodDelete, gamePath(id, ""), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// Stats requires the token to be configured.
func (c *Client) Stats(ctx context.Context) (models.StatsResponse, error) {
	var stats models.StatsResponse
	err := c.request(ctx, http.MethodGet, "/api/stats", nil, &stats)
	if err != nil {
		return models.StatsResponse{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
