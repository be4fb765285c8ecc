package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"lobbyd/internal/store"
)

// Session is the authenticated identity state attached to a request.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Metrics is the optional counter surface a Service reports lifecycle events
// to. A nil Metrics is a valid no-op.
type Metrics interface {
	IncIssued()
	IncRefreshed()
	IncExpired()
	IncSwept(n int64)
}

// Service issues, verifies, refreshes, expires, and sweeps PASETO v4.public
// session tokens. Every session gets its own Ed25519 keypair: the private
// half signs exactly one token and is discarded; the public half is
// persisted, indexed by the PASERK key id carried in the token footer.
type Service struct {
	store             Store
	implicitAssertion []byte
	ttl               time.Duration
	metrics           Metrics
}

// NewService constructs a session Service. implicitAssertion is the
// domain-separation constant bound into every signature (SESSION_APP_SECRET
// in spec terms); ttl is the session lifetime (24h per spec).
func NewService(st Store, implicitAssertion []byte, ttl time.Duration, metrics Metrics) *Service {
	return &Service{store: st, implicitAssertion: implicitAssertion, ttl: ttl, metrics: metrics}
}

type footer struct {
	KID string `json:"kid"`
}

// Create mints a fresh session for userID: a new keypair, a signed token
// with claims iss=userID/exp=now+ttl, and a persisted verifying-key row.
func (s *Service) Create(ctx context.Context, q store.Querier, userID string, now time.Time) (Session, error) {
	const op = "session.Create"

	kp := newKeypair()
	kid, err := kp.kid()
	if err != nil {
		return Session{}, OpError{Op: op, Kind: err}
	}
	pk, err := kp.paserk()
	if err != nil {
		return Session{}, OpError{Op: op, Kind: err}
	}

	exp := now.Add(s.ttl)
	signed, err := s.sign(kp, userID, kid, exp)
	if err != nil {
		return Session{}, OpError{Op: op, Kind: err}
	}

	if err := s.store.Insert(ctx, q, Key{KeyID: kid, PublicKey: pk, ExpiresAt: exp}); err != nil {
		return Session{}, err
	}

	if s.metrics != nil {
		s.metrics.IncIssued()
	}

	return Session{UserID: userID, Token: signed, ExpiresAt: exp}, nil
}

func (s *Service) sign(kp keypair, userID, kid string, exp time.Time) (string, error) {
	foot, err := json.Marshal(footer{KID: kid})
	if err != nil {
		return "", err
	}

	tok := paseto.NewToken()
	tok.SetIssuer(userID)
	tok.SetExpiration(exp)
	tok.SetFooter(foot)

	return tok.V4Sign(kp.secret, s.implicitAssertion), nil
}

// Verify authenticates an opaque session token and returns the Session it
// represents.
func (s *Service) Verify(ctx context.Context, q store.Querier, token string) (Session, error) {
	const op = "session.Verify"

	if !looksLikeV4Public(token) {
		return Session{}, OpError{Op: op, Kind: ErrInvalidTokenFormat}
	}

	kid, err := peekFooterKID(token)
	if err != nil {
		return Session{}, OpError{Op: op, Kind: ErrMissingTokenID, Msg: err.Error()}
	}

	key, err := s.store.FetchByKeyID(ctx, q, kid)
	if err != nil {
		return Session{}, err
	}

	pub, err := decodePublicKeyFromPASERK(key.PublicKey)
	if err != nil {
		return Session{}, OpError{Op: op, Kind: ErrInvalidTokenFormat, Msg: "corrupt stored public key"}
	}

	parser := paseto.NewParser()
	parsed, err := parser.ParseV4Public(pub, token, s.implicitAssertion)
	if err != nil {
		return Session{}, OpError{Op: op, Kind: ErrInvalidSignature}
	}

	userID, err := parsed.GetIssuer()
	if err != nil || userID == "" {
		return Session{}, OpError{Op: op, Kind: ErrMissingUserID}
	}

	exp, err := parsed.GetExpiration()
	if err != nil {
		return Session{}, OpError{Op: op, Kind: ErrInvalidSessionClaim, Msg: "exp"}
	}

	return Session{UserID: userID, Token: token, ExpiresAt: exp}, nil
}

// Refresh replaces the session's verifying-key row in place: a new keypair
// signs a new token with a fresh expiry, and the old row is atomically
// overwritten so the old token can never verify again.
func (s *Service) Refresh(ctx context.Context, q store.Querier, sess Session, now time.Time) (Session, error) {
	const op = "session.Refresh"

	oldKID, err := peekFooterKID(sess.Token)
	if err != nil {
		return Session{}, OpError{Op: op, Kind: ErrMissingTokenID, Msg: err.Error()}
	}

	kp := newKeypair()
	kid, err := kp.kid()
	if err != nil {
		return Session{}, OpError{Op: op, Kind: err}
	}
	pk, err := kp.paserk()
	if err != nil {
		return Session{}, OpError{Op: op, Kind: err}
	}

	exp := now.Add(s.ttl)
	signed, err := s.sign(kp, sess.UserID, kid, exp)
	if err != nil {
		return Session{}, OpError{Op: op, Kind: err}
	}

	if err := s.store.Replace(ctx, q, oldKID, Key{KeyID: kid, PublicKey: pk, ExpiresAt: exp}); err != nil {
		return Session{}, err
	}

	if s.metrics != nil {
		s.metrics.IncRefreshed()
	}

	return Session{UserID: sess.UserID, Token: signed, ExpiresAt: exp}, nil
}

// Expire deletes the verifying-key row backing token. The signature is not
// re-verified: the client presenting a well-formed footer has already
// demonstrated it knows the key id, and deleting an absent row is a no-op.
func (s *Service) Expire(ctx context.Context, q store.Querier, token string) error {
	kid, err := peekFooterKID(token)
	if err != nil {
		return nil
	}
	if err := s.store.DeleteByKeyID(ctx, q, kid); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncExpired()
	}
	return nil
}

// Cleanup deletes every verifying-key row whose expiry has passed. Safe to
// run concurrently with live requests: it only ever removes rows that can no
// longer back a valid session.
func (s *Service) Cleanup(ctx context.Context, q store.Querier, now time.Time) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, q, now)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil && n > 0 {
		s.metrics.IncSwept(n)
	}
	return n, nil
}

// looksLikeV4Public reports whether token carries the "v4.public." header
// PASETO requires, without attempting to decode or verify it.
func looksLikeV4Public(token string) bool {
	return strings.HasPrefix(token, "v4.public.")
}

// peekFooterKID extracts the footer's "kid" claim without verifying the
// token's signature. PASETO footers travel in cleartext (base64url, the
// final dot-delimited segment) though they are bound into the signature;
// reading it first lets verification look up which public key to use.
func peekFooterKID(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", ErrMissingTokenID
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[3])
	if err != nil {
		return "", ErrMissingTokenID
	}
	var f footer
	if err := json.Unmarshal(raw, &f); err != nil || f.KID == "" {
		return "", ErrMissingTokenID
	}
	return f.KID, nil
}
