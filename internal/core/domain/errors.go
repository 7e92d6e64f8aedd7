package domain

import "errors"

// Auth error taxonomy. Each sentinel maps to exactly one HTTP status at the
// API boundary; nothing here is retryable.
var (
	// ErrMalformedToken covers tokens that fail to parse or whose signature
	// does not verify. Folded into ErrInvalidCredentials before surfacing.
	ErrMalformedToken = errors.New("malformed token")

	// ErrTokenExpired marks a structurally valid token past its expiry.
	// Kept distinct from ErrMalformedToken for observability only.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidCredentials covers both a bad email/password pair and an
	// undecodable bearer token. Deliberately uniform so callers cannot tell
	// "no such email" from "wrong password".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned by the refresh flow for any token that is
	// not a live refresh token bound to an active user.
	ErrInvalidToken = errors.New("invalid token")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserInactive    = errors.New("inactive user")
	ErrUserNotVerified = errors.New("user not verified")
	ErrForbidden       = errors.New("not enough permissions")
	ErrEmailTaken      = errors.New("email already registered")

	// ErrInvalidInput marks a registration payload that failed a defensive
	// service-level check after request validation already ran.
	ErrInvalidInput = errors.New("invalid input")
)
