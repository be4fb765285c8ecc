package lobby

import "errors"

// Sentinel error kinds. These surface as GraphQL-level errors (HTTP 200),
// never as an HTTP status change (§7 of the design).
var (
	ErrGameFull        = errors.New("game_full")
	ErrGameNotFound    = errors.New("game_not_found")
	ErrCannotStartGame = errors.New("cannot_start_game")
)
