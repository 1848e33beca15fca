package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/lk16/flippy/reversi/internal/models"
	"github.com/lk16/flippy/reversi/internal/othello"
	"github.com/lk16/flippy/reversi/internal/repository"
	"github.com/lk16/flippy/reversi/internal/session"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	incoming [][]byte
	outgoing [][]byte
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	if len(c.incoming) == 0 {
		return 0, nil, io.EOF
	}

	msg := c.incoming[0]
	c.incoming = c.incoming[1:]
	return websocket.TextMessage, msg, nil
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.outgoing = append(c.outgoing, data)
	return nil
}

func newTestHandler(t *testing.T, conn Conn) *Handler {
	t.Helper()

	manager := session.NewManager(
		repository.NewMemorySessionRepository(),
		repository.NewMemoryArchiveRepository(),
		time.Hour,
	)

	defaults := models.GameSettings{Size: 4, Policy: othello.PolicyGreedy}
	return NewHandler(conn, manager, defaults)
}

func incoming(t *testing.T, id int, event string, data any) *Incoming {
	t.Helper()

	var raw json.RawMessage
	if data != nil {
		var err error
		raw, err = json.Marshal(data)
		require.NoError(t, err)
	}

	return &Incoming{Event: event, ID: id, Data: raw}
}

func TestHandler_HandleMessageErrors(t *testing.T) {
	tests := []struct {
		name      string
		req       *Incoming
		wantError string
	}{
		{
			name:      "missing event",
			req:       &Incoming{ID: 1},
			wantError: "event field is either empty or missing",
		},
		{
			name:      "unknown event",
			req:       &Incoming{ID: 2, Event: "evaluation_request"},
			wantError: "unknown event: evaluation_request",
		},
		{
			name:      "unknown game",
			req:       &Incoming{ID: 3, Event: EventGetGame, Data: json.RawMessage(`{"game_id":"missing"}`)},
			wantError: "game not found",
		},
		{
			name:      "invalid size",
			req:       &Incoming{ID: 4, Event: EventCreateGame, Data: json.RawMessage(`{"size":7}`)},
			wantError: "invalid board size: 7 (must be even and between 4 and 16)",
		},
		{
			name:      "bad data",
			req:       &Incoming{ID: 5, Event: EventUndo, Data: json.RawMessage(`[]`)},
			wantError: "ws undo unmarshal error: json: cannot unmarshal array into Go value of type ws.GameRequest",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newTestHandler(t, &fakeConn{})

			outgoing := h.handleMessage(context.Background(), test.req)

			require.Equal(t, test.req.ID, outgoing.ID)
			require.Nil(t, outgoing.Data)
			require.Equal(t, test.wantError, outgoing.Error)
		})
	}
}

func TestHandler_HandleMessageGame(t *testing.T) {
	h := newTestHandler(t, &fakeConn{})
	ctx := context.Background()

	outgoing := h.handleMessage(ctx, incoming(t, 1, EventCreateGame, map[string]any{"size": 6}))
	require.Empty(t, outgoing.Error)

	created, ok := outgoing.Data.(models.GameResponse)
	require.True(t, ok)
	require.Equal(t, 6, created.Size)
	require.Equal(t, othello.Black, created.Turn)

	activate := map[string]any{"game_id": created.ID, "field": "d2"}
	outgoing = h.handleMessage(ctx, incoming(t, 2, EventActivateCell, activate))
	require.Empty(t, outgoing.Error)

	played, ok := outgoing.Data.(models.GameResponse)
	require.True(t, ok)
	require.Equal(t, []string{"d2"}, played.Moves)
	require.Equal(t, othello.White, played.Turn)

	// Same cell again is illegal
	outgoing = h.handleMessage(ctx, incoming(t, 3, EventActivateCell, activate))
	require.Contains(t, outgoing.Error, othello.ErrIllegalMove.Error())

	outgoing = h.handleMessage(ctx, incoming(t, 4, EventUndo, GameRequest{GameID: created.ID}))
	require.Empty(t, outgoing.Error)
	require.Empty(t, outgoing.Data.(models.GameResponse).Moves) //nolint: forcetypeassert

	outgoing = h.handleMessage(ctx, incoming(t, 5, EventReset, GameRequest{GameID: created.ID}))
	require.Empty(t, outgoing.Error)
	require.Equal(t, othello.Counts{Black: 2, White: 2, Empty: 32}, outgoing.Data.(models.GameResponse).Counts) //nolint: forcetypeassert
}

func TestHandler_Handle(t *testing.T) {
	conn := &fakeConn{}
	h := newTestHandler(t, conn)

	outgoing := h.handleMessage(context.Background(), incoming(t, 1, EventCreateGame, nil))
	require.Empty(t, outgoing.Error)
	gameID := outgoing.Data.(models.GameResponse).ID //nolint: forcetypeassert

	conn.incoming = [][]byte{
		[]byte(fmt.Sprintf(`{"event":"activate_cell","id":7,"data":{"game_id":%q,"row":0,"col":2}}`, gameID)),
		[]byte(fmt.Sprintf(`{"event":"get_game","id":8,"data":{"game_id":%q}}`, gameID)),
		[]byte(`{"event":"bogus","id":9}`),
	}

	err := h.Handle()
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, conn.outgoing, 3)

	type reply struct {
		ID    int                  `json:"id"`
		Data  *models.GameResponse `json:"data"`
		Error string               `json:"error"`
	}

	replies := make([]reply, len(conn.outgoing))
	for i, msg := range conn.outgoing {
		require.NoError(t, json.Unmarshal(msg, &replies[i]))
	}

	require.Equal(t, 7, replies[0].ID)
	require.Equal(t, []string{"c1"}, replies[0].Data.Moves)

	require.Equal(t, 8, replies[1].ID)
	require.Equal(t, []string{"..x.", ".xx.", ".ox.", "...."}, replies[1].Data.Board)

	require.Equal(t, 9, replies[2].ID)
	require.Nil(t, replies[2].Data)
	require.Equal(t, "unknown event: bogus", replies[2].Error)
}

func TestHandler_HandleBadJSON(t *testing.T) {
	conn := &fakeConn{
		incoming: [][]byte{
			[]byte(`{"event":`),
			[]byte(`{"event":"create_game","id":2}`),
		},
	}
	h := newTestHandler(t, conn)

	err := h.Handle()
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, conn.outgoing, 2)

	var outgoing Outgoing
	require.NoError(t, json.Unmarshal(conn.outgoing[0], &outgoing))
	require.Equal(t, 0, outgoing.ID)
	require.Nil(t, outgoing.Data)
	require.Contains(t, outgoing.Error, "unmarshal error")

	// The connection stays usable after a bad message
	outgoing = Outgoing{}
	require.NoError(t, json.Unmarshal(conn.outgoing[1], &outgoing))
	require.Equal(t, 2, outgoing.ID)
	require.Empty(t, outgoing.Error)
	require.NotNil(t, outgoing.Data)
}

func TestParseMessage(t *testing.T) {
	_, err := parseMessage(websocket.BinaryMessage, []byte(`{}`))
	require.EqualError(t, err, "unexpected message type: 2")

	req, err := parseMessage(websocket.TextMessage, []byte(`{"event":"get_game","id":3,"data":{"game_id":"x"}}`))
	require.NoError(t, err)
	require.Equal(t, EventGetGame, req.Event)
	require.Equal(t, 3, req.ID)
}
