package database

import (
	"context"
	"errors"
	"serwis-kont/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateUsername = errors.New("a user with this username already exists")
var ErrUserNotFound = errors.New("user not found")

type CreateUserParams struct {
	Username     string
	PasswordHash string
	DisplayName  *string
}

// CreateUser inserts a new user. The unique index on username makes the
// check-and-insert atomic: of two concurrent registrations for the same name,
// one gets the row and the other gets ErrDuplicateUsername.
func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, display_name, created_at
	`
	var user models.User

	err := q.db.QueryRow(ctx, query, params.Username, params.PasswordHash, params.DisplayName).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return &user, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, display_name, created_at
		FROM users
		WHERE username = $1
	`
	var user models.User

	err := q.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, display_name, created_at
		FROM users
		WHERE id = $1
	`
	var user models.User

	err := q.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

type UpdateUserProfileParams struct {
	ID          int64
	Username    string
	DisplayName *string
}

// UpdateUserProfile changes the profile fields of exactly the given user.
// Callers must pass the id bound to the acting session, never a request value.
func (q *Queries) UpdateUserProfile(ctx context.Context, params UpdateUserProfileParams) error {
	query := `
		UPDATE users
		SET username = $2, display_name = $3
		WHERE id = $1
	`
	tag, err := q.db.Exec(ctx, query, params.ID, params.Username, params.DisplayName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes the user row. Sessions go with it via the FK cascade.
// Returns false when no row matched.
func (q *Queries) DeleteUser(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	tag, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
