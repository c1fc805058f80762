package ports

import (
	"context"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

// ActivityService records recipe activity events.
type ActivityService interface {
	Record(ctx context.Context, event domain.RecipeEvent) error
}

// ActivityPublisher hands events to the asynchronous activity pipeline.
// Publish must not block the caller on persistence.
type ActivityPublisher interface {
	Publish(event domain.RecipeEvent)
}
