package api

import (
	"log"
	"net/http"

	"serwis-kont/internal/websocket"
)

// ServeWsHandler upgrades the connection to a websocket streaming the user's
// account activity. Mounted behind SessionMiddleware, so the identity comes
// from the same cookie-backed session as the rest of the protected surface.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, session.UserID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
