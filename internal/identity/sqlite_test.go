package identity

import (
	"context"
	"testing"

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

func TestSQLiteStore_CreateAndFetch(t *testing.T) {
	st := openTestStore(t)
	s := NewSQLiteStore()
	ctx := context.Background()

	id, err := s.Create(ctx, st.DB(), "nisovin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty id")
	}

	u, err := s.Fetch(ctx, st.DB(), id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if u.ID != id || u.Nickname != "nisovin" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestSQLiteStore_Create_EmptyNickname(t *testing.T) {
	st := openTestStore(t)
	s := NewSQLiteStore()

	_, err := s.Create(context.Background(), st.DB(), "")
	if !IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestSQLiteStore_Fetch_NotFound(t *testing.T) {
	st := openTestStore(t)
	s := NewSQLiteStore()

	_, err := s.Fetch(context.Background(), st.DB(), "does-not-exist")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSQLiteStore_DuplicateNicknameAllowed(t *testing.T) {
	st := openTestStore(t)
	s := NewSQLiteStore()
	ctx := context.Background()

	id1, err := s.Create(ctx, st.DB(), "twins")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id2, err := s.Create(ctx, st.DB(), "twins")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct ids for same nickname")
	}
}
