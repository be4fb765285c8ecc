package session

import (
	"encoding/base64"
	"encoding/hex"

	paseto "aidanwoods.dev/go-paseto"
	"golang.org/x/crypto/blake2b"
)

// publicHeader is the PASERK header for a v4 public key.
const publicHeader = "k4.public."

// pidHeader is the PASERK header for a v4 public key's id.
const pidHeader = "k4.pid."

// keypair is a freshly minted, single-use PASETO v4 asymmetric keypair. The
// secret half signs exactly one token and is never persisted; only kid and
// pk (derived below) reach the store.
type keypair struct {
	secret paseto.V4AsymmetricSecretKey
	public paseto.V4AsymmetricPublicKey
}

func newKeypair() keypair {
	secret := paseto.NewV4AsymmetricSecretKey()
	return keypair{secret: secret, public: secret.Public()}
}

// paserk encodes the public half as its PASERK "pk" string
// (k4.public.<base64url-nopad(raw public key bytes)>).
func (k keypair) paserk() (string, error) {
	return publicKeyPASERK(k.public)
}

// kid derives the PASERK key-id ("k4.pid.<base64url-nopad(blake2b-264(header+raw))>")
// for the public half, per the PASERK key-id algorithm: a 33-byte BLAKE2b
// hash of the key's own PASERK header concatenated with its raw bytes.
func (k keypair) kid() (string, error) {
	return publicKeyKeyID(k.public)
}

func publicKeyPASERK(pub paseto.V4AsymmetricPublicKey) (string, error) {
	raw, err := hex.DecodeString(pub.ExportHex())
	if err != nil {
		return "", err
	}
	return publicHeader + base64.RawURLEncoding.EncodeToString(raw), nil
}

func publicKeyKeyID(pub paseto.V4AsymmetricPublicKey) (string, error) {
	raw, err := hex.DecodeString(pub.ExportHex())
	if err != nil {
		return "", err
	}
	preimage := make([]byte, 0, len(publicHeader)+len(raw))
	preimage = append(preimage, publicHeader...)
	preimage = append(preimage, raw...)

	// PASERK key ids are a 33-byte (264-bit) BLAKE2b digest of the key's own
	// PASERK header concatenated with its raw bytes.
	const pidLen = 33
	h, err := blake2b.New(pidLen, nil)
	if err != nil {
		return "", err
	}
	h.Write(preimage)
	return pidHeader + base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}

// decodePublicKeyFromPASERK reverses publicKeyPASERK.
func decodePublicKeyFromPASERK(pk string) (paseto.V4AsymmetricPublicKey, error) {
	const prefix = publicHeader
	if len(pk) < len(prefix) || pk[:len(prefix)] != prefix {
		return paseto.V4AsymmetricPublicKey{}, ErrInvalidTokenFormat
	}
	raw, err := base64.RawURLEncoding.DecodeString(pk[len(prefix):])
	if err != nil {
		return paseto.V4AsymmetricPublicKey{}, ErrInvalidTokenFormat
	}
	return paseto.NewV4AsymmetricPublicKeyFromHex(hex.EncodeToString(raw))
}
