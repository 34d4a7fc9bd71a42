package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/money-game-backend/internal/hub"
	"github.com/DoyleJ11/money-game-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, newSession SessionFactory, origins []string, log *zap.Logger) http.Handler {
	log = log.Named("http")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, origins, log))

	r.Group(func(r chi.Router) {
		r.Use(requestLogger(log))
		r.Post("/sessions", CreateSession(h, newSession, log))
		r.Get("/sessions/{code}/players/{playerID}/view", GetView(h))
	})
	return r
}
