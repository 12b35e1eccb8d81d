package http

import (
	"net/http"

	"github.com/Wyydra/switchboard/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/switchboard/internal/config"
	"github.com/Wyydra/switchboard/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

type Handler struct {
	Coordinator *service.Coordinator
	Relay       *service.Relay
	Lifecycle   *service.Lifecycle
	Hub         *ws.Hub

	cfg      config.Config
	upgrader websocket.Upgrader
}

func NewHandler(co *service.Coordinator, relay *service.Relay, lc *service.Lifecycle, hub *ws.Hub, cfg config.Config) *Handler {
	h := &Handler{
		Coordinator: co,
		Relay:       relay,
		Lifecycle:   lc,
		Hub:         hub,
		cfg:         cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if cfg.AllowAllOrigins {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/ws", h.ServeWS)

	return r
}
