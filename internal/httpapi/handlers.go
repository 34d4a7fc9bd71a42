package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	mrand "math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
	"github.com/DoyleJ11/money-game-backend/internal/hub"
	"github.com/DoyleJ11/money-game-backend/internal/lobby"
)

const maxCodeAttempts = 10

// SessionFactory returns the initial state of a new session.
type SessionFactory func() engine.State

// NewSessionFactory builds sessions with rules. A zero seed draws a fresh
// seed for every session.
func NewSessionFactory(rules engine.Rules, seed uint64) SessionFactory {
	return func() engine.State {
		s := seed
		if s == 0 {
			s = mrand.Uint64()
		}
		return engine.NewState(rules, s)
	}
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateSession(h *hub.Hub, newSession SessionFactory, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan *lobby.Lobby, 1)
		for range maxCodeAttempts {
			code, err := GenerateCode()
			if err != nil {
				log.Error("generate code", zap.Error(err))
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}

			h.Inbox() <- hub.CreateLobby{Code: code, State: newSession(), Reply: reply}
			if <-reply == nil {
				log.Debug("collision on code, regenerating", zap.String("session", code))
				continue
			}

			writeJSON(w, http.StatusCreated, struct {
				Code string `json:"code"`
			}{Code: code})
			return
		}
		http.Error(w, "failed to create session", http.StatusInternalServerError)
	}
}

// GetView returns the snapshot one player would currently receive.
func GetView(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		playerID := chi.URLParam(r, "playerID")

		lbReply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: lbReply}
		lb := <-lbReply
		if lb == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		reply := make(chan lobby.Snapshot, 1)
		if !lb.Send(lobby.GetView{PlayerID: playerID, Reply: reply}) {
			http.Error(w, "session closed", http.StatusGone)
			return
		}
		select {
		case snap := <-reply:
			writeJSON(w, http.StatusOK, snap)
		case <-lb.Done():
			http.Error(w, "session closed", http.StatusGone)
		case <-r.Context().Done():
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
