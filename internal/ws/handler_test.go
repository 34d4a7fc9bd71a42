package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
	"github.com/DoyleJ11/money-game-backend/internal/hub"
	"github.com/DoyleJ11/money-game-backend/internal/lobby"
	"github.com/DoyleJ11/money-game-backend/internal/types"
)

func newTestHub(t *testing.T, code string) *hub.Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(ctx, zap.NewNop())
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.CreateLobby{Code: code, State: engine.NewState(engine.DefaultRules(), 3), Reply: reply}
	require.NotNil(t, <-reply)
	return h
}

func newTestServer(t *testing.T, code string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Handler(newTestHub(t, code), nil, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func writeMsg(t *testing.T, conn *websocket.Conn, cm types.ClientMessage) {
	t.Helper()
	payload, err := json.Marshal(cm)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, payload))
}

func TestHandler_RejectsMissingOrUnknownSession(t *testing.T) {
	srv := newTestServer(t, "ABC123")

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws?code=NOPE00")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_JoinAndReceiveSnapshots(t *testing.T) {
	srv := newTestServer(t, "ABC123")
	conn := dial(t, srv, "code=ABC123&player=alice")

	first := readMsg(t, conn)
	assert.Equal(t, types.MsgStateSnapshot, first.Type)
	require.NotNil(t, first.View)
	assert.Nil(t, first.View.Self)

	writeMsg(t, conn, types.ClientMessage{Type: string(engine.CmdJoinGame)})
	joined := readMsg(t, conn)
	assert.Equal(t, types.MsgStateSnapshot, joined.Type)
	assert.Equal(t, 1, joined.Version)
	require.NotNil(t, joined.View.Self)
	assert.Equal(t, "alice", joined.View.Self.ID)
	assert.True(t, engine.ContainsEvent(joined.Events, engine.EvtPlayerJoined))

	writeMsg(t, conn, types.ClientMessage{Type: string(engine.CmdStartGame)})
	rejected := readMsg(t, conn)
	assert.Equal(t, types.MsgError, rejected.Type)
	assert.Equal(t, string(engine.CodeNotEnoughPlayers), rejected.Code)
}

func TestHandler_MintsPlayerID(t *testing.T) {
	srv := newTestServer(t, "ABC123")
	conn := dial(t, srv, "code=ABC123")

	welcome := readMsg(t, conn)
	assert.Equal(t, types.MsgWelcome, welcome.Type)
	assert.NotEmpty(t, welcome.PlayerID)

	_ = readMsg(t, conn) // initial snapshot
	writeMsg(t, conn, types.ClientMessage{Type: string(engine.CmdJoinGame)})
	joined := readMsg(t, conn)
	require.NotNil(t, joined.View.Self)
	assert.Equal(t, welcome.PlayerID, joined.View.Self.ID)
}

func TestHandler_BadInput(t *testing.T) {
	srv := newTestServer(t, "ABC123")
	conn := dial(t, srv, "code=ABC123&player=bob")
	_ = readMsg(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	msg := readMsg(t, conn)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, "BAD_JSON", msg.Code)

	writeMsg(t, conn, types.ClientMessage{Type: "dance"})
	msg = readMsg(t, conn)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, string(engine.CodeUnsupportedCommand), msg.Code)
}

func TestHandler_IdleClientStaysConnected(t *testing.T) {
	srv := httptest.NewServer(newHandler(newTestHub(t, "ABC123"), nil, zap.NewNop(), 10*time.Millisecond))
	t.Cleanup(srv.Close)
	conn := dial(t, srv, "code=ABC123&player=carol")

	// Pongs are only sent while the client is reading.
	msgs := make(chan types.ServerMessage, 8)
	go func() {
		defer close(msgs)
		for {
			_, data, err := conn.Read(context.Background())
			if err != nil {
				return
			}
			var msg types.ServerMessage
			if json.Unmarshal(data, &msg) == nil {
				msgs <- msg
			}
		}
	}()
	next := func() types.ServerMessage {
		t.Helper()
		select {
		case msg, ok := <-msgs:
			require.True(t, ok, "connection closed")
			return msg
		case <-time.After(time.Second):
			t.Fatalf("no message from server")
			return types.ServerMessage{}
		}
	}

	assert.Equal(t, types.MsgStateSnapshot, next().Type)
	time.Sleep(150 * time.Millisecond)

	writeMsg(t, conn, types.ClientMessage{Type: string(engine.CmdJoinGame)})
	joined := next()
	assert.Equal(t, types.MsgStateSnapshot, joined.Type)
	assert.Equal(t, 1, joined.Version)
}

func TestToEngineCommand(t *testing.T) {
	cmd := ToEngineCommand(types.ClientMessage{Type: "transferMoney", TargetID: "bob", Amount: 25})
	assert.Equal(t, engine.Command{Type: engine.CmdTransferMoney, TargetID: "bob", Amount: 25}, cmd)
}
