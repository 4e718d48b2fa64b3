package socket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/parlorchat/parlor/internal/infrastructure/auth"
	"github.com/parlorchat/parlor/internal/infrastructure/json"
	"github.com/parlorchat/parlor/internal/infrastructure/ws"
	"github.com/parlorchat/parlor/internal/presentation/utils"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub      *ws.Hub
	verifier auth.Verifier
	logger   *zap.SugaredLogger
}

func NewHandler(hub *ws.Hub, verifier auth.Verifier, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		logger:   logger,
	}
}

// ServeWS authenticates the caller, upgrades the connection and hands it
// to the hub. Authentication happens before the upgrade so unauthorized
// callers get a plain 401 instead of a dead socket.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	credential := utils.CredentialFromRequest(r)
	if credential == "" {
		json.WriteUnauthorizedError(w, "No auth token provided")
		return
	}

	userID, err := h.verifier.Verify(credential)
	if err != nil {
		json.WriteUnauthorizedError(w, "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), userID)
	h.hub.Register() <- client

	go client.WritePump()
	go client.ReadPump(h.hub)
}
