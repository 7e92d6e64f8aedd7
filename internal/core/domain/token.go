package domain

import "time"

// TokenType discriminates access tokens from refresh tokens. A refresh token
// is never accepted where an access token is required, and vice versa.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenClaims is the verified claim set carried by a signed token.
type TokenClaims struct {
	Subject   string
	Type      TokenType
	ExpiresAt time.Time
}
