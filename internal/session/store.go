package session

import (
	"context"
	"time"

	"lobbyd/internal/store"
)

// Key is a persisted verifying-key row. The matching private key is never
// stored; it signs exactly one token at creation (or refresh) time and is
// discarded.
type Key struct {
	KeyID     string
	PublicKey string
	ExpiresAt time.Time
}

// Store is the session verifying-key persistence boundary.
type Store interface {
	// Insert persists a new verifying key row.
	Insert(ctx context.Context, q store.Querier, key Key) error
	// FetchByKeyID returns the row for keyID, or ErrNonExistingToken if absent.
	FetchByKeyID(ctx context.Context, q store.Querier, keyID string) (Key, error)
	// Replace atomically swaps the row at oldKeyID for newKey. Returns
	// ErrNonExistingToken if oldKeyID does not exist.
	Replace(ctx context.Context, q store.Querier, oldKeyID string, newKey Key) error
	// DeleteByKeyID removes the row for keyID. Absence is not an error.
	DeleteByKeyID(ctx context.Context, q store.Querier, keyID string) error
	// DeleteExpired removes every row whose ExpiresAt is before now, returning
	// the number of rows removed.
	DeleteExpired(ctx context.Context, q store.Querier, now time.Time) (int64, error)
}
