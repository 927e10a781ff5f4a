package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// DefaultSecret is the secret the upstream mailer signed links with before
// it became configurable.
const DefaultSecret = "clave-secreta"

// Generate returns the hex SHA-256 of "from-to-url-secret".
func Generate(from, to, url, secret string) string {
	sum := sha256.Sum256([]byte(from + "-" + to + "-" + url + "-" + secret))
	return hex.EncodeToString(sum[:])
}

// Signer signs and verifies click links with one shared secret.
type Signer struct {
	secret string
}

// NewSigner creates a Signer bound to secret
func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Sign computes the token for a link
func (s *Signer) Sign(from, to, url string) string {
	return Generate(from, to, url, s.secret)
}

// Verify reports whether presented is exactly the token for the link.
func (s *Signer) Verify(from, to, url, presented string) bool {
	expected := s.Sign(from, to, url)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}
