package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"serwis-kont/internal/auth"
	"serwis-kont/internal/models"
)

type contextKey string

const sessionContextKey = contextKey("session")

const sessionCookieName = "session_token"

// SessionMiddleware guards routes that require a logged-in user. A missing,
// tampered, expired or revoked session redirects to the login page, mirroring
// the browser flow: protected pages are simply not reachable anonymously.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		token, err := auth.VerifySessionCookie(cookie.Value, s.config.Session.Secret)
		if err != nil {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		session, err := s.store.GetSessionByToken(r.Context(), token)
		if err != nil {
			log.Printf("ERROR: Failed to look up session: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if session == nil {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSessionFromContext(ctx context.Context) *models.Session {
	if session, ok := ctx.Value(sessionContextKey).(*models.Session); ok {
		return session
	}
	return nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    auth.SignSessionToken(token, s.config.Session.Secret),
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
