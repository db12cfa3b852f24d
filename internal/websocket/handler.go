package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/gramarogya/nondvahi/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and subscribes the
// connection to the operator's village.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	logger = logger.With("component", "websocket")
	return func(w http.ResponseWriter, r *http.Request) {
		village := auth.Village(r.Context())
		if village == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("accept failed", "error", err)
			return
		}

		NewClient(hub, conn, village).Run(r.Context())
	}
}
