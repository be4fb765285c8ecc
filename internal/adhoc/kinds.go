package adhoc

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidTokenFormat     = errors.New("invalid_token_format")
	ErrNonExistingToken       = errors.New("non_existing_token")
	ErrSignatureMismatch      = errors.New("signature_mismatch")
	ErrInvalidSignatureStored = errors.New("invalid_signature_stored")
	ErrTokenIDCollision       = errors.New("token_id_collision")
)
