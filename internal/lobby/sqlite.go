package lobby

import (
	"context"
	"database/sql"
	"errors"

	"lobbyd/internal/store"
)

// SQLiteStore implements Store against the embedded relational store.
type SQLiteStore struct{}

// NewSQLiteStore constructs the sqlite-backed lobby/game store.
func NewSQLiteStore() *SQLiteStore { return &SQLiteStore{} }

func (s *SQLiteStore) InsertLobby(ctx context.Context, q store.Querier, id, createdBy string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO lobby(id, created_by, player1, player2) VALUES (?, ?, NULL, NULL)`,
		id, createdBy)
	if err != nil {
		return OpError{Op: "lobby.InsertLobby", Kind: err}
	}
	return nil
}

func (s *SQLiteStore) FetchLobbyOptional(ctx context.Context, q store.Querier, id string) (LobbyGame, bool, error) {
	const op = "lobby.FetchLobbyOptional"
	var g LobbyGame
	row := q.QueryRowContext(ctx,
		`SELECT id, created_by, player1, player2 FROM lobby WHERE id = ?`, id)
	if err := row.Scan(&g.ID, &g.CreatedBy, &g.Player1, &g.Player2); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LobbyGame{}, false, nil
		}
		return LobbyGame{}, false, OpError{Op: op, Kind: err}
	}
	return g, true, nil
}

func (s *SQLiteStore) SetSeat(ctx context.Context, q store.Querier, id string, seat int, userID string) error {
	const op = "lobby.SetSeat"
	var query string
	switch seat {
	case 1:
		query = `UPDATE lobby SET player1 = ? WHERE id = ?`
	case 2:
		query = `UPDATE lobby SET player2 = ? WHERE id = ?`
	default:
		return OpError{Op: op, Kind: errors.New("invalid seat number")}
	}
	res, err := q.ExecContext(ctx, query, userID, id)
	if err != nil {
		return OpError{Op: op, Kind: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return OpError{Op: op, Kind: err}
	}
	if n == 0 {
		return OpError{Op: op, Kind: ErrGameNotFound}
	}
	return nil
}

// StartGame moves id from lobby into games inside a SAVEPOINT scoped to the
// enclosing (request-level) transaction: a failed start must not disturb
// other work already done in that transaction (e.g. the auth middleware's
// session refresh), so it rolls back only its own two statements.
func (s *SQLiteStore) StartGame(ctx context.Context, q store.Querier, id string) error {
	const op = "lobby.StartGame"
	const savepoint = "lobby_start_game"

	if _, err := q.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return OpError{Op: op, Kind: err}
	}

	fail := func(cause error) error {
		_, _ = q.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
		if cause != nil {
			return OpError{Op: op, Kind: cause}
		}
		return OpError{Op: op, Kind: ErrCannotStartGame}
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO games(id, created_by, player1, player2)
		SELECT id, created_by, player1, player2 FROM lobby
		WHERE id = ? AND player1 IS NOT NULL AND player2 IS NOT NULL`, id)
	if err != nil {
		return fail(err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fail(err)
	}
	if inserted != 1 {
		return fail(nil)
	}

	res, err = q.ExecContext(ctx, `DELETE FROM lobby WHERE id = ?`, id)
	if err != nil {
		return fail(err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return fail(err)
	}
	if deleted != 1 {
		return fail(nil)
	}

	if _, err := q.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return OpError{Op: op, Kind: err}
	}
	return nil
}

func (s *SQLiteStore) FetchGame(ctx context.Context, q store.Querier, id string) (Game, bool, error) {
	const op = "lobby.FetchGame"
	var g Game
	row := q.QueryRowContext(ctx,
		`SELECT id, created_by, player1, player2 FROM games WHERE id = ?`, id)
	if err := row.Scan(&g.ID, &g.CreatedBy, &g.Player1, &g.Player2); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Game{}, false, nil
		}
		return Game{}, false, OpError{Op: op, Kind: err}
	}
	return g, true, nil
}
