package domain

import "time"

// RecipeAction names the mutation an activity event records.
type RecipeAction string

const (
	RecipeCreated RecipeAction = "created"
	RecipeUpdated RecipeAction = "updated"
	RecipeDeleted RecipeAction = "deleted"
)

// RecipeEvent is an audit record of a single recipe mutation.
type RecipeEvent struct {
	RecipeID   string
	Action     RecipeAction
	Title      string
	Actor      string // token subject; empty when writes are unauthenticated
	OccurredAt time.Time
}
