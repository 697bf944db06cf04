package api

import (
	"net/http"

	"serwis-kont/internal/config"
	"serwis-kont/internal/database"
	"serwis-kont/internal/websocket"
)

type Server struct {
	config *config.Config
	store  *database.Store
	wsHub  *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, wsHub *websocket.Hub) *Server {
	return &Server{
		config: cfg,
		store:  store,
		wsHub:  wsHub,
	}
}

// @Summary      Health check
// @Description  Reports whether the service and its database connection are alive.
// @Tags         ops
// @Produce      plain
// @Success      200  {string}  string "OK"
// @Failure      503  {string}  string "Service Unavailable"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}
