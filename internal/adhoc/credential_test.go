package adhoc

import (
	"context"
	"testing"
)

func TestService_IssueAndVerify(t *testing.T) {
	st := openTestStore(t)
	userID := createTestUser(t, st)
	svc := NewService(NewSQLiteStore(), "test-app-key")
	ctx := context.Background()

	token, err := svc.Issue(ctx, st.DB(), userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	gotUserID, err := svc.Verify(ctx, st.DB(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("got user id %q, want %q", gotUserID, userID)
	}
}

func TestService_Verify_WrongAppKey(t *testing.T) {
	st := openTestStore(t)
	userID := createTestUser(t, st)
	ctx := context.Background()

	issuer := NewService(NewSQLiteStore(), "app-key-a")
	token, err := issuer.Issue(ctx, st.DB(), userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	verifier := NewService(NewSQLiteStore(), "app-key-b")
	if _, err := verifier.Verify(ctx, st.DB(), token); err == nil {
		t.Fatalf("expected verification failure under a different app key")
	}
}

func TestService_Verify_MalformedToken(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore(), "test-app-key")

	if _, err := svc.Verify(context.Background(), st.DB(), "not-a-valid-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestService_Verify_TamperedToken(t *testing.T) {
	st := openTestStore(t)
	userID := createTestUser(t, st)
	svc := NewService(NewSQLiteStore(), "test-app-key")
	ctx := context.Background()

	token, err := svc.Issue(ctx, st.DB(), userID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-2] + "zz"
	if _, err := svc.Verify(ctx, st.DB(), tampered); err == nil {
		t.Fatalf("expected error for tampered token")
	}
}
