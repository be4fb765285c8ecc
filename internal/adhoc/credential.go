package adhoc

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"lobbyd/internal/store"
)

// maxTokenIDAttempts bounds the insert-if-absent retry loop. 128-bit
// randomness makes collisions a formality; the cap only guards against a
// degenerate RNG looping forever.
const maxTokenIDAttempts = 3

// Service issues and verifies ad-hoc credentials.
type Service struct {
	store  Store
	appKey string
}

// NewService constructs an ad-hoc credential service. appKey is the
// build-time secret mixed into every signature (§4.3 of the design).
func NewService(st Store, appKey string) *Service {
	return &Service{store: st, appKey: appKey}
}

// Issue mints a new ad-hoc credential for userID and persists it, returning
// the external token string "base64(token_id).base64(token)", both halves in
// standard padded base64 (see encodeB64).
func (s *Service) Issue(ctx context.Context, q store.Querier, userID string) (string, error) {
	const op = "adhoc.Issue"

	secret := randomBytes16()
	token := randomBytes16()
	signature := s.sign(userID, secret, token)

	for attempt := 0; attempt < maxTokenIDAttempts; attempt++ {
		tokenID := randomBytes16()
		inserted, err := s.store.TryInsert(ctx, q, tokenID, userID, secret, signature)
		if err != nil {
			return "", OpError{Op: op, Kind: err}
		}
		if inserted {
			return encodeB64(tokenID) + "." + encodeB64(token), nil
		}
	}
	return "", OpError{Op: op, Kind: ErrTokenIDCollision}
}

// Verify authenticates an external credential string and returns the owning
// user id.
func (s *Service) Verify(ctx context.Context, q store.Querier, external string) (string, error) {
	const op = "adhoc.Verify"

	idPart, tokenPart, ok := strings.Cut(external, ".")
	if !ok {
		return "", OpError{Op: op, Kind: ErrInvalidTokenFormat, Msg: "missing separator"}
	}

	tokenID, err := decodeB64(idPart)
	if err != nil || len(tokenID) != 16 {
		return "", OpError{Op: op, Kind: ErrInvalidTokenFormat, Msg: "bad token_id"}
	}

	token, err := decodeB64(tokenPart)
	if err != nil {
		return "", OpError{Op: op, Kind: ErrInvalidTokenFormat, Msg: "bad token"}
	}

	cred, err := s.store.FetchByTokenID(ctx, q, tokenID)
	if err != nil {
		return "", err
	}

	if len(cred.Signature) != 32 {
		return "", OpError{Op: op, Kind: ErrInvalidSignatureStored}
	}

	want := s.sign(cred.UserID, cred.Secret, token)
	if subtle.ConstantTimeCompare(want, cred.Signature) != 1 {
		return "", OpError{Op: op, Kind: ErrSignatureMismatch}
	}

	return cred.UserID, nil
}

// sign computes SHA3-256(APP_KEY "." user_id "." base64(secret) "." base64(token)),
// with secret and token in standard padded base64.
func (s *Service) sign(userID string, secret, token []byte) []byte {
	h := sha3.New256()
	fmt.Fprintf(h, "%s.%s.%s.%s", s.appKey, userID, encodeB64(secret), encodeB64(token))
	return h.Sum(nil)
}

func randomBytes16() []byte {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failing is unrecoverable
	}
	return b
}

// Standard (padded) base64 is used rather than the URL-safe alphabet: the
// wire format's own worked example ("...dg==" with a literal "+") only
// decodes under the standard alphabet.
func encodeB64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func decodeB64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }
