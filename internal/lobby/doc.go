// Package lobby implements the two-player game lifecycle: a LobbyGame with
// up to two open seats transitions, atomically, into a started Game with
// both seats required. The collections never overlap — a game id lives in
// exactly one of them at a time.
package lobby
