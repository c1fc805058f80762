package ports

import (
	"context"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// RecipeChanges is the full replacement applied by Update. Category and
// PreparationTime are only written when non-nil.
type RecipeChanges struct {
	Title           string
	Ingredients     []string
	Instructions    string
	Author          string
	Category        *string
	PreparationTime *float64
}

// RecipeRepository defines persistence operations for recipes.
// Lookups by an unknown or malformed id return domain.ErrRecipeNotFound.
type RecipeRepository interface {
	// Create inserts r and sets r.ID to the generated id.
	Create(ctx context.Context, r *domain.Recipe) error
	// InsertMany inserts all recipes in a single bulk write.
	InsertMany(ctx context.Context, recipes []*domain.Recipe) error
	Count(ctx context.Context) (int64, error)
	// List returns every recipe in the store's natural order.
	List(ctx context.Context) ([]*domain.Recipe, error)
	FindByID(ctx context.Context, id string) (*domain.Recipe, error)
	// Update replaces the mutable fields and returns the updated record.
	Update(ctx context.Context, id string, changes RecipeChanges) (*domain.Recipe, error)
	Delete(ctx context.Context, id string) error
}
