package ports

import (
	"context"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by POST /register.
type RegisterInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginInput carries the fields accepted by POST /login.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (string, *domain.User, error)
}

// PasswordHasher produces and checks slow, salted password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// TokenIssuer signs access tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, roles []string) (string, error)
}
