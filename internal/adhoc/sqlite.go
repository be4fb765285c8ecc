package adhoc

import (
	"context"
	"database/sql"
	"errors"

	"lobbyd/internal/store"
)

// SQLiteStore implements Store against the embedded relational store.
type SQLiteStore struct{}

// NewSQLiteStore constructs the sqlite-backed ad-hoc credential store.
func NewSQLiteStore() *SQLiteStore { return &SQLiteStore{} }

func (s *SQLiteStore) TryInsert(ctx context.Context, q store.Querier, tokenID []byte, userID string, secret, signature []byte) (bool, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO adhoc_tokens(id, user_id, secret, signature) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		tokenID, userID, secret, signature)
	if err != nil {
		return false, OpError{Op: "adhoc.TryInsert", Kind: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, OpError{Op: "adhoc.TryInsert", Kind: err}
	}
	return n == 1, nil
}

func (s *SQLiteStore) FetchByTokenID(ctx context.Context, q store.Querier, tokenID []byte) (Credential, error) {
	var c Credential
	c.TokenID = tokenID
	row := q.QueryRowContext(ctx,
		`SELECT user_id, secret, signature FROM adhoc_tokens WHERE id = ?`, tokenID)
	if err := row.Scan(&c.UserID, &c.Secret, &c.Signature); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credential{}, OpError{Op: "adhoc.FetchByTokenID", Kind: ErrNonExistingToken}
		}
		return Credential{}, OpError{Op: "adhoc.FetchByTokenID", Kind: err}
	}
	return c, nil
}
