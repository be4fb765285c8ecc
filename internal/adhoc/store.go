package adhoc

import (
	"context"

	"lobbyd/internal/store"
)

// Credential is a persisted ad-hoc credential row. Secret and Signature are
// raw bytes; the plaintext token itself is never stored.
type Credential struct {
	TokenID   []byte
	UserID    string
	Secret    []byte
	Signature []byte
}

// Store is the ad-hoc credential persistence boundary.
type Store interface {
	// TryInsert inserts a row for tokenID if absent, reporting whether the
	// insert happened. A false result (no error) means tokenID is already
	// taken and the caller should draw a new one.
	TryInsert(ctx context.Context, q store.Querier, tokenID []byte, userID string, secret, signature []byte) (inserted bool, err error)
	// FetchByTokenID returns the credential row for tokenID, or
	// ErrNonExistingToken if absent.
	FetchByTokenID(ctx context.Context, q store.Querier, tokenID []byte) (Credential, error)
}
