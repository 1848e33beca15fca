package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/session"
)

const (
	messageTimeout = 2 * time.Second
)

// Conn is the part of a websocket connection used by Handler.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

type Handler struct {
	manager  *session.Manager
	defaults models.GameSettings
	ws       Conn
}

// NewHandler creates a new Handler. Defaults fill in the fields a create_game
// event leaves out.
func NewHandler(ws Conn, manager *session.Manager, defaults models.GameSettings) *Handler {
	return &Handler{manager: manager, defaults: defaults, ws: ws}
}

func (h *Handler) readMessage() (int, []byte, error) {
	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return 0, nil, err
	}

	slog.Debug("read ws message", "msgType", msgType, "msg", msg)
	return msgType, msg, nil
}

// parseMessage decodes a message. Errors are sent back to the client without
// closing the connection.
func parseMessage(msgType int, msg []byte) (*Incoming, error) {
	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	var req Incoming
	if err := json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "msg", string(msg))

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// handleMessage never fails, errors are sent back to the client.
func (h *Handler) handleMessage(ctx context.Context, req *Incoming) *Outgoing {
	data, err := h.dispatch(ctx, req)
	if err != nil {
		return &Outgoing{ID: req.ID, Error: err.Error()}
	}

	return &Outgoing{ID: req.ID, Data: data}
}

func (h *Handler) dispatch(ctx context.Context, req *Incoming) (any, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	switch req.Event {
	case EventCreateGame:
		return h.handleCreateGame(ctx, req)
	case EventGetGame:
		return h.handleGameEvent(ctx, req, h.manager.Get)
	case EventActivateCell:
		return h.handleActivateCell(ctx, req)
	case EventReset:
		return h.handleGameEvent(ctx, req, h.manager.Reset)
	case EventUndo:
		return h.handleGameEvent(ctx, req, h.manager.Undo)
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

// Handle handles the websocket connection until the client closes it.
func (h *Handler) Handle() error {
	for {
		msgType, msg, err := h.readMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("ws read error: %w", err)
		}

		var outgoing *Outgoing

		req, err := parseMessage(msgType, msg)
		if err != nil {
			outgoing = &Outgoing{Error: err.Error()}
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
			outgoing = h.handleMessage(ctx, req)
			cancel()
		}

		if err = h.writeMessage(outgoing); err != nil {
			return fmt.Errorf("ws write error: %w", err)
		}
	}
}

func (h *Handler) handleCreateGame(ctx context.Context, req *Incoming) (any, error) {
	var reqData models.NewGameRequest
	if len(req.Data) != 0 {
		if err := json.Unmarshal(req.Data, &reqData); err != nil {
			return nil, fmt.Errorf("ws create game unmarshal error: %w", err)
		}
	}

	settings, err := reqData.Settings(h.defaults)
	if err != nil {
		return nil, err
	}

	return h.manager.Create(ctx, settings)
}

func (h *Handler) handleGameEvent(
	ctx context.Context,
	req *Incoming,
	action func(ctx context.Context, id string) (models.GameResponse, error),
) (any, error) {
	var reqData GameRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return nil, fmt.Errorf("ws %s unmarshal error: %w", req.Event, err)
	}

	return action(ctx, reqData.GameID)
}

func (h *Handler) handleActivateCell(ctx context.Context, req *Incoming) (any, error) {
	var reqData ActivateCellRequest
	if err := json.Unmarshal(req.Data, &reqData); err != nil {
		return nil, fmt.Errorf("ws activate cell unmarshal error: %w", err)
	}

	move, err := reqData.Move()
	if err != nil {
		return nil, err
	}

	return h.manager.Activate(ctx, reqData.GameID, move)
}
