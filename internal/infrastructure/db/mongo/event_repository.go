package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
	now func() time.Time
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents), now: time.Now}
}

// InsertEvent appends a recipe mutation to the recipe_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.RecipeEvent) error {
	doc := bson.M{
		"recipeId":    event.RecipeID,
		"action":      string(event.Action),
		"occurredAt":  event.OccurredAt.UTC(),
		"processedAt": r.now().UTC(),
	}
	if event.Title != "" {
		doc["title"] = event.Title
	}
	if event.Actor != "" {
		doc["actor"] = event.Actor
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
