package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
	"github.com/DoyleJ11/money-game-backend/internal/hub"
	"github.com/DoyleJ11/money-game-backend/internal/lobby"
	"github.com/DoyleJ11/money-game-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	replyTimeout = 5 * time.Second
	// Idle clients stay connected as long as they answer pings.
	pingInterval = 30 * time.Second
	pingTimeout  = 10 * time.Second
)

// Handler serves GET /ws?code=ABC123&player=<id>. A client without a player
// id is given a fresh one in a Welcome message.
func Handler(h *hub.Hub, origins []string, log *zap.Logger) http.HandlerFunc {
	return newHandler(h, origins, log, pingInterval)
}

func newHandler(h *hub.Hub, origins []string, log *zap.Logger, ping time.Duration) http.HandlerFunc {
	log = log.Named("ws")
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: origins})
		if err != nil {
			log.Warn("accept failed", zap.String("session", code), zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		playerID := r.URL.Query().Get("player")
		minted := playerID == ""
		if minted {
			playerID = uuid.NewString()
		}
		clientID := uuid.NewString()
		clog := log.With(zap.String("session", code), zap.String("player", playerID), zap.String("client", clientID))

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		write := func(msg types.ServerMessage) error {
			payload, err := json.Marshal(msg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
			defer cancel()
			return conn.Write(ctx, websocket.MessageText, payload)
		}

		if minted {
			if err := write(types.ServerMessage{Type: types.MsgWelcome, PlayerID: playerID}); err != nil {
				clog.Debug("welcome failed", zap.Error(err))
				return
			}
		}

		out := make(chan lobby.Snapshot, 8)
		if !lb.Send(lobby.Connect{ClientID: clientID, PlayerID: playerID, Outbox: out}) {
			_ = write(types.ServerMessage{Type: types.MsgError, Code: "SESSION_CLOSED", Error: "session closed"})
			return
		}
		defer lb.Send(lobby.Disconnect{ClientID: clientID})
		clog.Info("client connected")

		// Writer goroutine
		go func() {
			for snap := range out {
				msg := types.ServerMessage{
					Type:    types.MsgStateSnapshot,
					Version: snap.Version,
					View:    &snap.View,
					Events:  snap.Events,
				}
				if err := write(msg); err != nil {
					clog.Debug("snapshot write failed", zap.Error(err))
				}
			}
			// The lobby closed our outbox: dropped as slow, or shut down.
			writeCancel()
		}()

		go keepAlive(writeCtx, writeCancel, conn, ping, clog)

		// Reader loop
		for {
			_, data, err := conn.Read(writeCtx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Info("client disconnected")
				default:
					clog.Debug("read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				clog.Debug("bad client message", zap.Error(err))
				_ = write(types.ServerMessage{Type: types.MsgError, Code: "BAD_JSON", Error: "bad json"})
				continue
			}

			cmdReply := make(chan error, 1)
			if !lb.Send(lobby.FromClient{PlayerID: playerID, Cmd: ToEngineCommand(cm), Reply: cmdReply}) {
				_ = write(types.ServerMessage{Type: types.MsgError, Code: "SESSION_CLOSED", Error: "session closed"})
				return
			}
			select {
			case err := <-cmdReply:
				if err != nil {
					_ = write(types.ServerMessage{Type: types.MsgError, Code: string(engine.CodeOf(err)), Error: err.Error()})
				}
			case <-time.After(replyTimeout):
				clog.Warn("no reply from session", zap.String("cmd", cm.Type))
			case <-lb.Done():
				return
			}
		}
	}
}

// keepAlive pings the client until ctx ends. A missed pong cancels ctx,
// which ends the reader loop.
func keepAlive(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, every time.Duration, clog *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
			err := conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				clog.Debug("ping failed", zap.Error(err))
				cancel()
				return
			}
		}
	}
}

// ToEngineCommand maps a client message onto an engine command. Unknown
// types pass through and are rejected by the engine as UNSUPPORTED_COMMAND.
func ToEngineCommand(m types.ClientMessage) engine.Command {
	return engine.Command{
		Type:     engine.CommandType(m.Type),
		TargetID: m.TargetID,
		Amount:   m.Amount,
		Tickets:  m.Tickets,
		Paddle:   m.Paddle,
		Prize:    m.Prize,
		Vote:     m.Vote,
	}
}
