// Package adhoc issues and verifies one-shot bearer credentials tied to a
// freshly minted user.
//
// The signature mixes three independent sources: a build-time APP_KEY, a
// per-credential stored secret, and a never-stored token. An attacker with
// read access to storage alone cannot forge a credential; an attacker who
// only knows APP_KEY cannot either. This is deliberately weaker than a
// signed token scheme, traded for a short external string.
package adhoc
