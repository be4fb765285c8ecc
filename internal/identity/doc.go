// Package identity holds the lobby service's only durable principal: User.
//
// Nicknames are display labels, not credentials; uniqueness is explicitly
// not enforced, matching the original model where two users can share a
// nickname and still resolve to distinct ids.
package identity
