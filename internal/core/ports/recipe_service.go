package ports

import (
	"context"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// CreateRecipeInput carries all data needed to create a new recipe.
type CreateRecipeInput struct {
	Title           string   `validate:"required"`
	Ingredients     []string `validate:"required,min=1"`
	Instructions    string   `validate:"required"`
	Author          string   `validate:"required"`
	Category        *string
	PreparationTime *float64 `validate:"omitempty,gte=0"`

	// IdempotencyKey, when set, makes a repeated create return the first result.
	IdempotencyKey string
	// Actor is the token subject performing the write, if any.
	Actor string
}

// UpdateRecipeInput carries the full replacement for an existing recipe.
type UpdateRecipeInput struct {
	ID              string   `validate:"required"`
	Title           string   `validate:"required"`
	Ingredients     []string `validate:"required,min=1"`
	Instructions    string   `validate:"required"`
	Author          string   `validate:"required"`
	Category        *string
	PreparationTime *float64 `validate:"omitempty,gte=0"`

	Actor string
}

// CreateRecipeResult is returned by the service after creating a recipe.
type CreateRecipeResult struct {
	Recipe *domain.Recipe
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// RecipeService defines use-case operations for recipes.
type RecipeService interface {
	CreateRecipe(ctx context.Context, input CreateRecipeInput) (*CreateRecipeResult, error)
	ListRecipes(ctx context.Context) ([]*domain.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, input UpdateRecipeInput) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id, actor string) error
}
