package ports

import (
	"context"

	"github.com/onless/driving-school-api/internal/core/domain"
)

// UserRepository defines the persistence surface the auth core depends on.
// The core reads users and writes them only once, at registration.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
