package adhoc

import (
	"context"
	"testing"

	"lobbyd/internal/identity"
	"lobbyd/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func createTestUser(t *testing.T, st *store.Store) string {
	t.Helper()
	id, err := identity.NewSQLiteStore().Create(context.Background(), st.DB(), "tester")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func TestSQLiteStore_TryInsert_Collision(t *testing.T) {
	st := openTestStore(t)
	s := NewSQLiteStore()
	ctx := context.Background()
	userID := createTestUser(t, st)

	tokenID := []byte("0123456789abcdef")
	inserted, err := s.TryInsert(ctx, st.DB(), tokenID, userID, []byte("secret-0123456789"), []byte("signature-0123456789012345678901"))
	if err != nil {
		t.Fatalf("TryInsert: %v", err)
	}
	if !inserted {
		t.Fatalf("expected first insert to succeed")
	}

	inserted, err = s.TryInsert(ctx, st.DB(), tokenID, userID, []byte("secret-0123456789"), []byte("signature-0123456789012345678901"))
	if err != nil {
		t.Fatalf("TryInsert (dup): %v", err)
	}
	if inserted {
		t.Fatalf("expected second insert with same token_id to report false")
	}
}

func TestSQLiteStore_FetchByTokenID_NotFound(t *testing.T) {
	st := openTestStore(t)
	s := NewSQLiteStore()

	_, err := s.FetchByTokenID(context.Background(), st.DB(), []byte("absent-1234567890"))
	if err == nil {
		t.Fatalf("expected error for absent token id")
	}
}
