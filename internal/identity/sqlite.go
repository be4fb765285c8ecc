package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"lobbyd/internal/store"
)

// SQLiteStore implements Store against the embedded relational store.
type SQLiteStore struct{}

// NewSQLiteStore constructs the sqlite-backed identity store.
func NewSQLiteStore() *SQLiteStore { return &SQLiteStore{} }

func (s *SQLiteStore) Create(ctx context.Context, q store.Querier, nickname string) (string, error) {
	const op = "identity.Create"
	if nickname == "" {
		return "", OpError{Op: op, Kind: ErrInvalidInput, Msg: "nickname must not be empty"}
	}

	id := uuid.New().String()
	_, err := q.ExecContext(ctx, `INSERT INTO users(id, nickname) VALUES (?, ?)`, id, nickname)
	if err != nil {
		return "", OpError{Op: op, Kind: err}
	}
	return id, nil
}

func (s *SQLiteStore) Fetch(ctx context.Context, q store.Querier, id string) (User, error) {
	const op = "identity.Fetch"
	var u User
	row := q.QueryRowContext(ctx, `SELECT id, nickname FROM users WHERE id = ?`, id)
	if err := row.Scan(&u.ID, &u.Nickname); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: "user"}
		}
		return User{}, OpError{Op: op, Kind: err}
	}
	return u, nil
}
