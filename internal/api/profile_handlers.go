package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"serwis-kont/internal/database"
	_ "serwis-kont/internal/models"
)

type DashboardResponse struct {
	Username string `json:"username" example:"alice"`
}

// @Summary      Dashboard
// @Description  Returns the identity bound to the current session, for the dashboard page.
// @Tags         profile
// @Produce      json
// @Success      200  {object}  DashboardResponse
// @Failure      302  {string}  string "Redirects to /login when not authenticated"
// @Router       /dashboard [get]
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DashboardResponse{Username: session.Username})
}

// @Summary      View profile
// @Description  Returns the profile of the logged-in user. If the account was deleted from another session in the meantime, the stale session is cleared and the client is sent back to the login page.
// @Tags         profile
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      302  {string}  string "Redirects to /login when not authenticated or the user no longer exists"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /profile [get]
func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		log.Printf("ERROR: Failed to load profile for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// The account vanished under this session; the session is no longer valid.
		if err := s.store.DeleteSessionByToken(r.Context(), session.Token); err != nil {
			log.Printf("ERROR: Failed to clear stale session: %v", err)
		}
		clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// @Summary      Edit profile
// @Description  Updates the display name and username of the logged-in user. Only the session's own record can ever be changed.
// @Tags         profile
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        name      formData  string  true  "New display name (max 50 characters)"
// @Param        username  formData  string  true  "New username (max 20 characters)"
// @Success      303  {string}  string "Redirects to /profile"
// @Failure      400  {string}  string "Missing or oversized fields"
// @Failure      409  {string}  string "Username already taken"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /edit_profile [post]
func (s *Server) EditProfileHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := r.PostFormValue("name")
	username := r.PostFormValue("username")

	if name == "" || username == "" {
		http.Error(w, "All fields are required!", http.StatusBadRequest)
		return
	}
	if len(username) > maxUsernameLen {
		http.Error(w, "Username must be at most 20 characters", http.StatusBadRequest)
		return
	}
	if len(name) > maxDisplayNameLen {
		http.Error(w, "Display name must be at most 50 characters", http.StatusBadRequest)
		return
	}

	// Record change, session refresh and journal entry commit or roll back as
	// one unit; a duplicate username leaves no trace anywhere.
	var eventBytes []byte
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		err := q.UpdateUserProfile(r.Context(), database.UpdateUserProfileParams{
			ID:          session.UserID,
			Username:    username,
			DisplayName: &name,
		})
		if err != nil {
			return err
		}

		if err := q.UpdateSessionUsername(r.Context(), session.UserID, username); err != nil {
			return err
		}

		eventBytes, err = q.InsertEvent(r.Context(), session.UserID, "profile_updated", map[string]string{
			"username":     username,
			"display_name": name,
		})
		return err
	})

	if txErr != nil {
		if errors.Is(txErr, database.ErrDuplicateUsername) {
			http.Error(w, "Username already exists!", http.StatusConflict)
			return
		}
		if errors.Is(txErr, database.ErrUserNotFound) {
			if delErr := s.store.DeleteSessionByToken(r.Context(), session.Token); delErr != nil {
				log.Printf("ERROR: Failed to clear stale session: %v", delErr)
			}
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		log.Printf("ERROR: Failed to update profile for user %d: %v", session.UserID, txErr)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	s.store.NotifyListeners(session.UserID, eventBytes)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// @Summary      Delete account
// @Description  Permanently deletes the logged-in user's account. All sessions of the account are torn down and the client returns to the home page anonymous.
// @Tags         profile
// @Produce      plain
// @Success      303  {string}  string "Redirects to /"
// @Failure      302  {string}  string "Redirects to / when the account is already gone"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /delete_account [post]
func (s *Server) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())

	var eventBytes []byte
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		deleted, err := q.DeleteUser(r.Context(), session.UserID)
		if err != nil {
			return err
		}
		if !deleted {
			return database.ErrUserNotFound
		}

		eventBytes, err = q.InsertEvent(r.Context(), session.UserID, "account_deleted", map[string]string{"username": session.Username})
		return err
	})

	if txErr != nil {
		if errors.Is(txErr, database.ErrUserNotFound) {
			// Already gone, likely deleted from another session. Nothing left to own.
			clearSessionCookie(w)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		log.Printf("ERROR: Failed to delete user %d: %v", session.UserID, txErr)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	s.store.NotifyListeners(session.UserID, eventBytes)
	if s.wsHub != nil {
		s.wsHub.DisconnectUser(session.UserID)
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
