package ports

import (
	"context"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// EventRepository persists recipe activity to the recipe_events audit collection.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.RecipeEvent) error
}
