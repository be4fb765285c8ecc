package lobby

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

func createTestUser(t *testing.T, st *store.Store, nickname string) string {
	t.Helper()
	id, err := identity.NewSQLiteStore().Create(context.Background(), st.DB(), nickname)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func TestService_CreateGame(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	creator := createTestUser(t, st, "creator")

	gameID, err := svc.CreateGame(ctx, st.DB(), creator)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if gameID == "" {
		t.Fatalf("expected non-empty game id")
	}

	g, err := svc.FetchLobby(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if g == nil {
		t.Fatalf("expected lobby row to exist")
	}
	if g.CreatedBy != creator || g.Player1 != nil || g.Player2 != nil {
		t.Fatalf("unexpected lobby row: %+v", g)
	}
}

func TestService_JoinGame_SeatOrdering(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	creator := createTestUser(t, st, "creator")
	p1 := createTestUser(t, st, "p1")
	p2 := createTestUser(t, st, "p2")
	p3 := createTestUser(t, st, "p3")

	gameID, err := svc.CreateGame(ctx, st.DB(), creator)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p1); err != nil {
		t.Fatalf("JoinGame p1: %v", err)
	}
	g, err := svc.FetchLobby(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if g.Player1 == nil || *g.Player1 != p1 || g.Player2 != nil {
		t.Fatalf("expected only player1 filled, got %+v", g)
	}

	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p2); err != nil {
		t.Fatalf("JoinGame p2: %v", err)
	}
	g, err = svc.FetchLobby(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if g.Player1 == nil || *g.Player1 != p1 || g.Player2 == nil || *g.Player2 != p2 {
		t.Fatalf("expected both seats filled in order, got %+v", g)
	}

	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p3); err == nil {
		t.Fatalf("expected GameFull once both seats are taken")
	}
}

func TestService_JoinGame_SameUserBothSeats(t *testing.T) {
	// Spec-preserved behavior: joining is not restricted against the same
	// user occupying both seats.
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	creator := createTestUser(t, st, "creator")
	solo := createTestUser(t, st, "solo")

	gameID, err := svc.CreateGame(ctx, st.DB(), creator)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	if _, err := svc.JoinGame(ctx, st.DB(), gameID, solo); err != nil {
		t.Fatalf("JoinGame (seat 1): %v", err)
	}
	if _, err := svc.JoinGame(ctx, st.DB(), gameID, solo); err != nil {
		t.Fatalf("JoinGame (seat 2): %v", err)
	}

	g, err := svc.FetchLobby(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if g.Player1 == nil || g.Player2 == nil || *g.Player1 != solo || *g.Player2 != solo {
		t.Fatalf("expected solo seated twice, got %+v", g)
	}
}

func TestService_JoinGame_NotFound(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	user := createTestUser(t, st, "someone")

	if _, err := svc.JoinGame(ctx, st.DB(), "00000000-0000-0000-0000-000000000000", user); err == nil {
		t.Fatalf("expected GameNotFound for a nonexistent game id")
	}
}

func TestService_StartGame_AtomicMove(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	creator := createTestUser(t, st, "creator")
	p1 := createTestUser(t, st, "p1")
	p2 := createTestUser(t, st, "p2")

	gameID, err := svc.CreateGame(ctx, st.DB(), creator)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p1); err != nil {
		t.Fatalf("JoinGame p1: %v", err)
	}
	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p2); err != nil {
		t.Fatalf("JoinGame p2: %v", err)
	}

	// StartGame takes no caller identity, so who starts the game is not
	// checked here; the e2e test has a non-creator player start it.
	if _, err := svc.StartGame(ctx, st.DB(), gameID); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	lobbyRow, err := svc.FetchLobby(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if lobbyRow != nil {
		t.Fatalf("expected lobby row to be gone after start, got %+v", lobbyRow)
	}

	game, err := svc.FetchGame(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchGame: %v", err)
	}
	if game == nil {
		t.Fatalf("expected started game to exist")
	}
	if game.CreatedBy != creator || game.Player1 != p1 || game.Player2 != p2 {
		t.Fatalf("unexpected game row: %+v", game)
	}
}

func TestService_StartGame_IncompleteSeatsFails(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	creator := createTestUser(t, st, "creator")
	p1 := createTestUser(t, st, "p1")

	gameID, err := svc.CreateGame(ctx, st.DB(), creator)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p1); err != nil {
		t.Fatalf("JoinGame p1: %v", err)
	}

	if _, err := svc.StartGame(ctx, st.DB(), gameID); err == nil {
		t.Fatalf("expected CannotStartGame with one empty seat")
	}

	// Unchanged: the lobby row is still there, no game row was created.
	lobbyRow, err := svc.FetchLobby(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchLobby: %v", err)
	}
	if lobbyRow == nil {
		t.Fatalf("expected lobby row to remain after a failed start")
	}

	game, err := svc.FetchGame(ctx, st.DB(), gameID)
	if err != nil {
		t.Fatalf("FetchGame: %v", err)
	}
	if game != nil {
		t.Fatalf("expected no game row after a failed start, got %+v", game)
	}
}

func TestService_StartGame_AbsentGameFails(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()

	if _, err := svc.StartGame(ctx, st.DB(), "00000000-0000-0000-0000-000000000000"); err == nil {
		t.Fatalf("expected CannotStartGame for an absent game id")
	}
}

func TestService_StartGame_AlreadyStartedFails(t *testing.T) {
	st := openTestStore(t)
	svc := NewService(NewSQLiteStore())
	ctx := context.Background()
	creator := createTestUser(t, st, "creator")
	p1 := createTestUser(t, st, "p1")
	p2 := createTestUser(t, st, "p2")

	gameID, err := svc.CreateGame(ctx, st.DB(), creator)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p1); err != nil {
		t.Fatalf("JoinGame p1: %v", err)
	}
	if _, err := svc.JoinGame(ctx, st.DB(), gameID, p2); err != nil {
		t.Fatalf("JoinGame p2: %v", err)
	}
	if _, err := svc.StartGame(ctx, st.DB(), gameID); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	if _, err := svc.StartGame(ctx, st.DB(), gameID); err == nil {
		t.Fatalf("expected CannotStartGame on a second start attempt")
	}
}
