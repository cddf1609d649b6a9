package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"gradesdash/internal/config"
	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/infrastructure"
)

// Handler upgrades /ws requests and attaches the connection to the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	opts     config.WebSocketConfig
	logger   *slog.Logger
}

// NewHandler creates the upgrade handler. Same-host origins are always
// accepted; allowedOrigins adds more.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *Handler {
	h := &Handler{
		hub:    hub,
		opts:   cfg,
		logger: logger.With(slog.String("component", "websocket.handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return checkOrigin(r, allowedOrigins)
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				status,
				apierrors.CodeWebSocketUpgrade,
				apierrors.ErrWebSocketUpgrade.Message,
				reason.Error(),
			))
		},
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(h.hub, NewConnectionWrapper(conn), ClientOptions{
		TraceID:    infrastructure.GetTraceID(r.Context()),
		PingPeriod: h.opts.PingPeriod,
		PongWait:   h.opts.PongWait,
	}, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func checkOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}
