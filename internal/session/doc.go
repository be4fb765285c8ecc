// Package session issues, verifies, refreshes, expires, and sweeps
// PASETO v4.public session tokens.
//
// Unlike a server-wide signing keypair, every session gets its own fresh
// Ed25519 keypair: the private half signs the token once and is discarded,
// the public half is persisted server-side indexed by a PASERK key id
// carried in the token footer. Looking the key id up is also the
// revocation path — delete the row and the token can never verify again.
package session
