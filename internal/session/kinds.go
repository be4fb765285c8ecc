package session

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidTokenFormat  = errors.New("invalid_token_format")
	ErrMissingTokenID      = errors.New("missing_token_id")
	ErrNonExistingToken    = errors.New("non_existing_token")
	ErrInvalidSignature    = errors.New("invalid_signature")
	ErrMissingUserID       = errors.New("missing_user_id")
	ErrInvalidSessionClaim = errors.New("invalid_session_claim")
)
