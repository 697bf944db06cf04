package database

import (
	"context"
	"errors"
	"time"

	"serwis-kont/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateSessionParams struct {
	ID        uuid.UUID
	UserID    int64
	Token     string
	Username  string
	UserAgent string
	ClientIP  string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, params CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, token, username, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.db.Exec(ctx, query,
		params.ID,
		params.UserID,
		params.Token,
		params.Username,
		params.UserAgent,
		params.ClientIP,
		params.ExpiresAt,
	)
	return err
}

// GetSessionByToken resolves an opaque token to its live session. Expired or
// unknown tokens both come back as (nil, nil); the caller treats them the same.
func (q *Queries) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token, username, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()
	`
	var session models.Session

	err := q.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.Username,
		&session.UserAgent,
		&session.ClientIP,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// UpdateSessionUsername refreshes the denormalized username on every session of
// the user, so other logged-in devices display the new name too.
func (q *Queries) UpdateSessionUsername(ctx context.Context, userID int64, username string) error {
	query := `UPDATE sessions SET username = $2 WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID, username)
	return err
}

// DeleteSessionByToken is idempotent: deleting a token that is already gone is
// a no-op, not an error.
func (q *Queries) DeleteSessionByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	_, err := q.db.Exec(ctx, query, token)
	return err
}

// DeleteSessionByID terminates one session by id, scoped to its owner: an id
// belonging to another user matches nothing and nothing is deleted.
func (q *Queries) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID int64) error {
	query := `DELETE FROM sessions WHERE id = $1 AND user_id = $2`
	_, err := q.db.Exec(ctx, query, sessionID, userID)
	return err
}

func (q *Queries) DeleteAllSessionsForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

func (q *Queries) ListSessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT id, user_id, token, username, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > now()
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Token,
			&session.Username,
			&session.UserAgent,
			&session.ClientIP,
			&session.ExpiresAt,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		return []models.Session{}, nil
	}

	return sessions, nil
}

// PurgeExpiredSessions removes rows past their expiry. Run periodically; the
// token lookup already filters on expires_at, this just keeps the table small.
func (q *Queries) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= now()`
	tag, err := q.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
