package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventNotifier pushes a serialized account event to any live listeners of the
// given user. Satisfied by the websocket hub; nil disables pushing.
type EventNotifier interface {
	PublishEvent(userID int64, eventData []byte)
}

type Store struct {
	pool     *pgxpool.Pool
	notifier EventNotifier
	*Queries
}

func NewStore(pool *pgxpool.Pool, notifier EventNotifier) *Store {
	return &Store{
		pool:     pool,
		notifier: notifier,
		Queries:  New(pool),
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}
