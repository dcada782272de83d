package socket

import (
	"net/http"

	"tulisbareng/pkg/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin allows us to connect from the frontend dev server.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWs upgrades an already-authenticated HTTP request to a WebSocket
// connection and starts a Session for it. The auth middleware has run by the
// time this is called, so userID is the verified identity.
func ServeWs(registry *Registry, limiter *RateLimiter, store DocumentStore, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	session := NewSession(conn, userID, registry, limiter, store)
	logger.Sugar.Infof("User connected: %s", userID)

	go session.writePump()
	go session.readPump()
}
