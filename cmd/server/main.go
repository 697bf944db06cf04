// @title           Account Service API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"serwis-kont/internal/api"
	"serwis-kont/internal/config"
	"serwis-kont/internal/database"
	"serwis-kont/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwis-kont/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}
	if cfg.Session.Secret == "" {
		log.Fatal("Brak sekretu sesji: ustaw SESSION_SECRET")
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool, wsHub)
	server := api.NewServer(cfg, store, wsHub)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := store.PurgeExpiredSessions(context.Background())
			if err != nil {
				log.Printf("ERROR: Nie można usunąć wygasłych sesji: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Usunięto %d wygasłych sesji", n)
			}
		}
	}()

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowCredentials: true,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwis kont działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Get("/register", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Wyślij POST z polami: username, password, confirmed, name"))
	})
	r.Post("/register", server.RegisterHandler)

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Wyślij POST z polami: username, password"))
	})
	r.Post("/login", server.LoginHandler)

	r.Get("/logout", server.LogoutHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(server.SessionMiddleware)
		r.Get("/dashboard", server.DashboardHandler)
		r.Get("/profile", server.GetProfileHandler)
		r.Get("/edit_profile", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Wyślij POST z polami: name, username"))
		})
		r.Post("/edit_profile", server.EditProfileHandler)
		r.Post("/delete_account", server.DeleteAccountHandler)
		r.Get("/sessions", server.ListSessionsHandler)
		r.Delete("/sessions/{sessionId}", server.DeleteSessionHandler)
		r.Post("/sessions/terminate_all", server.TerminateAllSessionsHandler)
		r.Get("/events", server.GetEventsHandler)
		r.Get("/ws", server.ServeWsHandler)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Uruchamianie serwera na porcie %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
