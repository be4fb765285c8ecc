package lobby

import (
	"context"

	"github.com/google/uuid"

	"lobbyd/internal/store"
)

// Service implements the lobby state machine.
type Service struct {
	store Store
}

// NewService constructs a lobby Service.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// CreateGame inserts a new LobbyGame created by userID, both seats empty.
func (s *Service) CreateGame(ctx context.Context, q store.Querier, userID string) (string, error) {
	id := uuid.New().String()
	if err := s.store.InsertLobby(ctx, q, id, userID); err != nil {
		return "", err
	}
	return id, nil
}

// JoinGame seats userID into the first open slot of gameID: player1 if
// empty, else player2, else ErrGameFull. A user joining an already-occupied
// seat as the other seat's filler is not detected or prevented — the same
// user may end up in both seats.
func (s *Service) JoinGame(ctx context.Context, q store.Querier, gameID, userID string) (string, error) {
	const op = "lobby.JoinGame"

	g, ok, err := s.store.FetchLobbyOptional(ctx, q, gameID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", OpError{Op: op, Kind: ErrGameNotFound}
	}

	var seat int
	switch {
	case g.Player1 == nil:
		seat = 1
	case g.Player2 == nil:
		seat = 2
	default:
		return "", OpError{Op: op, Kind: ErrGameFull}
	}

	if err := s.store.SetSeat(ctx, q, gameID, seat, userID); err != nil {
		return "", err
	}
	return gameID, nil
}

// StartGame atomically promotes gameID from the lobby into the started
// games collection. Any authenticated caller who knows the id may start it;
// the spec does not restrict this to created_by or to seated players.
func (s *Service) StartGame(ctx context.Context, q store.Querier, gameID string) (string, error) {
	if err := s.store.StartGame(ctx, q, gameID); err != nil {
		return "", err
	}
	return gameID, nil
}

// FetchLobby returns the lobby row for gameID, or nil if it is not (or no
// longer) in the lobby. No authentication required.
func (s *Service) FetchLobby(ctx context.Context, q store.Querier, gameID string) (*LobbyGame, error) {
	g, ok, err := s.store.FetchLobbyOptional(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// FetchGame returns the started game for gameID, or nil if it has not
// started. No authentication required.
func (s *Service) FetchGame(ctx context.Context, q store.Querier, gameID string) (*Game, error) {
	g, ok, err := s.store.FetchGame(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &g, nil
}
