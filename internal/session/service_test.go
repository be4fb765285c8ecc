package session

import (
	"context"
	"testing"
	"time"

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

type countingMetrics struct {
	issued, refreshed, expired int
	swept                      int64
}

func (m *countingMetrics) IncIssued()       { m.issued++ }
func (m *countingMetrics) IncRefreshed()    { m.refreshed++ }
func (m *countingMetrics) IncExpired()      { m.expired++ }
func (m *countingMetrics) IncSwept(n int64) { m.swept += n }

func TestService_CreateAndVerify(t *testing.T) {
	st := openTestStore(t)
	metrics := &countingMetrics{}
	svc := NewService(NewSQLiteStore(), []byte("implicit-assertion"), time.Hour, metrics)
	ctx := context.Background()
	now := time.Now().UTC()

	sess, err := svc.Create(ctx, st.DB(), "user-1", now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if metrics.issued != 1 {
		t.Fatalf("expected 1 issued, got %d", metrics.issued)
	}

	verified, err := svc.Verify(ctx, st.DB(), sess.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if verified.UserID != "user-1" {
		t.Fatalf("got user id %q, want user-1", verified.UserID)
	}
}

func TestService_Verify_MalformedToken(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore(), []byte("implicit-assertion"), time.Hour, nil)

	if _, err := svc.Verify(context.Background(), st.DB(), "not-a-paseto-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestService_Refresh_RotatesKeyAndInvalidatesOld(t *testing.T) {
	st := openTestStore(t)
	metrics := &countingMetrics{}
	svc := NewService(NewSQLiteStore(), []byte("implicit-assertion"), time.Hour, metrics)
	ctx := context.Background()
	now := time.Now().UTC()

	sess, err := svc.Create(ctx, st.DB(), "user-1", now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, st.DB(), sess, now)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.Token == sess.Token {
		t.Fatalf("expected refreshed token to differ from original")
	}
	if metrics.refreshed != 1 {
		t.Fatalf("expected 1 refreshed, got %d", metrics.refreshed)
	}

	if _, err := svc.Verify(ctx, st.DB(), sess.Token); err == nil {
		t.Fatalf("expected the original token to no longer verify after refresh")
	}

	verified, err := svc.Verify(ctx, st.DB(), refreshed.Token)
	if err != nil {
		t.Fatalf("Verify refreshed: %v", err)
	}
	if verified.UserID != "user-1" {
		t.Fatalf("got user id %q, want user-1", verified.UserID)
	}
}

func TestService_Expire(t *testing.T) {
	st := openTestStore(t)
	metrics := &countingMetrics{}
	svc := NewService(NewSQLiteStore(), []byte("implicit-assertion"), time.Hour, metrics)
	ctx := context.Background()
	now := time.Now().UTC()

	sess, err := svc.Create(ctx, st.DB(), "user-1", now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Expire(ctx, st.DB(), sess.Token); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if metrics.expired != 1 {
		t.Fatalf("expected 1 expired, got %d", metrics.expired)
	}

	if _, err := svc.Verify(ctx, st.DB(), sess.Token); err == nil {
		t.Fatalf("expected expired token to no longer verify")
	}

	// Expiring an already-gone token is a no-op, not an error.
	if err := svc.Expire(ctx, st.DB(), sess.Token); err != nil {
		t.Fatalf("Expire (idempotent): %v", err)
	}
}

func TestService_Cleanup_RemovesExpiredOnly(t *testing.T) {
	st := openTestStore(t)
	metrics := &countingMetrics{}
	svc := NewService(NewSQLiteStore(), []byte("implicit-assertion"), time.Hour, metrics)
	ctx := context.Background()
	now := time.Now().UTC()

	expired, err := svc.Create(ctx, st.DB(), "user-expired", now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Create expired: %v", err)
	}
	live, err := svc.Create(ctx, st.DB(), "user-live", now)
	if err != nil {
		t.Fatalf("Create live: %v", err)
	}

	n, err := svc.Cleanup(ctx, st.DB(), now)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 swept row, got %d", n)
	}
	if metrics.swept != 1 {
		t.Fatalf("expected metrics.swept == 1, got %d", metrics.swept)
	}

	if _, err := svc.Verify(ctx, st.DB(), expired.Token); err == nil {
		t.Fatalf("expected expired session to no longer verify")
	}
	if _, err := svc.Verify(ctx, st.DB(), live.Token); err != nil {
		t.Fatalf("expected live session to still verify: %v", err)
	}
}
