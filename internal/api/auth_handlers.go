package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"serwis-kont/internal/auth"
	"serwis-kont/internal/database"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const (
	maxUsernameLen    = 20
	maxDisplayNameLen = 50
	maxPasswordLen    = 72 // bcrypt input limit
)

// @Summary      Register a new account
// @Description  Creates a user from the submitted form. Registration does not log the user in; the client is redirected to the login page.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        username   formData  string  true   "Desired username (max 20 characters)"
// @Param        password   formData  string  true   "Password"
// @Param        confirmed  formData  string  true   "Password confirmation"
// @Param        name       formData  string  false  "Display name (max 50 characters)"
// @Success      303  {string}  string "Redirects to /login"
// @Failure      400  {string}  string "Missing fields or password mismatch"
// @Failure      409  {string}  string "Username already exists"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	confirmed := r.PostFormValue("confirmed")
	name := r.PostFormValue("name")

	if username == "" || password == "" || confirmed == "" {
		http.Error(w, "All fields are required!", http.StatusBadRequest)
		return
	}
	if password != confirmed {
		http.Error(w, "Passwords do not match!", http.StatusBadRequest)
		return
	}
	if len(username) > maxUsernameLen {
		http.Error(w, "Username must be at most 20 characters", http.StatusBadRequest)
		return
	}
	if len(password) > maxPasswordLen {
		http.Error(w, "Password is too long", http.StatusBadRequest)
		return
	}
	if len(name) > maxDisplayNameLen {
		http.Error(w, "Display name must be at most 50 characters", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("ERROR: Failed to hash password: %v", err)
		http.Error(w, "Registration failed. Please try again.", http.StatusInternalServerError)
		return
	}

	var displayName *string
	if name != "" {
		displayName = &name
	}

	user, err := s.store.CreateUser(r.Context(), database.CreateUserParams{
		Username:     username,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			http.Error(w, "Username already exists!", http.StatusConflict)
			return
		}
		log.Printf("ERROR: Failed to create user %q: %v", username, err)
		http.Error(w, "Registration failed. Please try again.", http.StatusInternalServerError)
		return
	}

	if err := s.store.LogEvent(r.Context(), user.ID, "user_registered", map[string]string{"username": user.Username}); err != nil {
		log.Printf("WARN: Failed to journal registration for user %d: %v", user.ID, err)
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// @Summary      Log in
// @Description  Verifies the credentials, establishes a server-side session and sets the signed session cookie. The error message never reveals whether the username exists.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      303  {string}  string "Redirects to /dashboard"
// @Failure      400  {string}  string "Missing fields"
// @Failure      401  {string}  string "Invalid username or password"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		http.Error(w, "Username and password are required!", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Printf("ERROR: Failed to look up user %q: %v", username, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		http.Error(w, "Invalid username or password!", http.StatusUnauthorized)
		return
	}

	generateToken, err := nanoid.Standard(40)
	if err != nil {
		log.Printf("CRITICAL: Failed to initialize nanoid generator: %v", err)
		http.Error(w, "Internal server error (token generation)", http.StatusInternalServerError)
		return
	}
	token := generateToken()
	expiresAt := time.Now().Add(time.Duration(s.config.Session.TTLHours) * time.Hour)

	sessionParams := database.CreateSessionParams{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		Username:  user.Username,
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
		ExpiresAt: expiresAt,
	}

	if err := s.store.CreateSession(r.Context(), sessionParams); err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	if err := s.store.LogEvent(r.Context(), user.ID, "user_logged_in", map[string]string{"client_ip": r.RemoteAddr}); err != nil {
		log.Printf("WARN: Failed to journal login for user %d: %v", user.ID, err)
	}

	s.setSessionCookie(w, token, expiresAt)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// @Summary      Log out
// @Description  Clears the session unconditionally and redirects home. Logging out twice in a row is harmless.
// @Tags         auth
// @Produce      plain
// @Success      303  {string}  string "Redirects to /"
// @Router       /logout [get]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if token, err := auth.VerifySessionCookie(cookie.Value, s.config.Session.Secret); err == nil {
			session, err := s.store.GetSessionByToken(r.Context(), token)
			if err == nil && session != nil {
				if err := s.store.LogEvent(r.Context(), session.UserID, "user_logged_out", nil); err != nil {
					log.Printf("WARN: Failed to journal logout for user %d: %v", session.UserID, err)
				}
			}
			if err := s.store.DeleteSessionByToken(r.Context(), token); err != nil {
				log.Printf("ERROR: Failed to delete session: %v", err)
			}
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
