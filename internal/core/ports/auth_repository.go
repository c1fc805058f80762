package ports

import (
	"context"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
// Create must return domain.ErrUserExists when username or email is taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
