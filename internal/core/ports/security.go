package ports

import "github.com/onless/driving-school-api/internal/core/domain"

// PasswordHasher is a one-way credential transform.
type PasswordHasher interface {
	// Hash produces a salted digest; two calls with the same plaintext
	// yield different digests.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest
	// verifies as false, never as an error.
	Verify(plaintext, digest string) bool
}

// TokenCodec issues and decodes signed, expiring, typed tokens.
type TokenCodec interface {
	// Issue mints a token for the given subject. The TTL is chosen by
	// token type from codec configuration.
	Issue(subject int64, typ domain.TokenType) (string, error)
	// Decode verifies the signature before trusting any claim and returns
	// domain.ErrMalformedToken or domain.ErrTokenExpired on failure.
	Decode(token string) (*domain.TokenClaims, error)
}
