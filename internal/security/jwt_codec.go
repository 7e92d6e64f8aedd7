package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/onless/driving-school-api/internal/core/domain"
)

// JWTCodec signs and verifies HS256 tokens. The signing key and both TTLs
// are fixed at construction; rotating the key invalidates every outstanding
// token.
type JWTCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	nowFunc    func() time.Time
}

type jwtClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func NewJWTCodec(secret string, accessTTL, refreshTTL time.Duration) *JWTCodec {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		nowFunc:    time.Now,
	}
}

// Issue encodes the subject id, the token type, and an absolute expiry of
// now + the type's TTL into a signed compact string.
func (c *JWTCodec) Issue(subject int64, typ domain.TokenType) (string, error) {
	ttl := c.accessTTL
	if typ == domain.TokenRefresh {
		ttl = c.refreshTTL
	}

	now := c.nowFunc().UTC()
	claims := jwtClaims{
		Type: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Decode verifies the signature before trusting any claim. Expired tokens
// are reported as domain.ErrTokenExpired; everything else that fails to
// parse or verify is domain.ErrMalformedToken.
func (c *JWTCodec) Decode(token string) (*domain.TokenClaims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.nowFunc), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrMalformedToken
	}
	if !parsed.Valid {
		return nil, domain.ErrMalformedToken
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &domain.TokenClaims{
		Subject:   claims.Subject,
		Type:      domain.TokenType(claims.Type),
		ExpiresAt: expiresAt,
	}, nil
}
