package ports

import (
	"context"

	"github.com/onless/driving-school-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role is
// optional; empty defaults to student.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     domain.Role
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService exposes the credential flows and the principal resolver.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// CurrentUser resolves a raw bearer token into a loaded, active user.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}
