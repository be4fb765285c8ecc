package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lobbyd/internal/store"
)

// SQLiteStore implements Store against the embedded relational store.
type SQLiteStore struct{}

// NewSQLiteStore constructs the sqlite-backed session key store.
func NewSQLiteStore() *SQLiteStore { return &SQLiteStore{} }

func (s *SQLiteStore) Insert(ctx context.Context, q store.Querier, key Key) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO session_tokens(id, public_key, expires_at) VALUES (?, ?, ?)`,
		key.KeyID, key.PublicKey, key.ExpiresAt.UTC())
	if err != nil {
		return OpError{Op: "session.Insert", Kind: err}
	}
	return nil
}

func (s *SQLiteStore) FetchByKeyID(ctx context.Context, q store.Querier, keyID string) (Key, error) {
	const op = "session.FetchByKeyID"
	var k Key
	var expires time.Time
	row := q.QueryRowContext(ctx,
		`SELECT id, public_key, expires_at FROM session_tokens WHERE id = ?`, keyID)
	if err := row.Scan(&k.KeyID, &k.PublicKey, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Key{}, OpError{Op: op, Kind: ErrNonExistingToken}
		}
		return Key{}, OpError{Op: op, Kind: err}
	}
	k.ExpiresAt = expires.UTC()
	return k, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, q store.Querier, oldKeyID string, newKey Key) error {
	const op = "session.Replace"
	res, err := q.ExecContext(ctx,
		`UPDATE session_tokens SET id = ?, public_key = ?, expires_at = ? WHERE id = ?`,
		newKey.KeyID, newKey.PublicKey, newKey.ExpiresAt.UTC(), oldKeyID)
	if err != nil {
		return OpError{Op: op, Kind: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return OpError{Op: op, Kind: err}
	}
	if n == 0 {
		return OpError{Op: op, Kind: ErrNonExistingToken}
	}
	return nil
}

func (s *SQLiteStore) DeleteByKeyID(ctx context.Context, q store.Querier, keyID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM session_tokens WHERE id = ?`, keyID)
	if err != nil {
		return OpError{Op: "session.DeleteByKeyID", Kind: err}
	}
	return nil
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context, q store.Querier, now time.Time) (int64, error) {
	const op = "session.DeleteExpired"
	res, err := q.ExecContext(ctx, `DELETE FROM session_tokens WHERE expires_at < ?`, now.UTC())
	if err != nil {
		return 0, OpError{Op: op, Kind: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, OpError{Op: op, Kind: err}
	}
	return n, nil
}
