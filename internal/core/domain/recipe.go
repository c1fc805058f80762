package domain

import (
	"errors"
	"time"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Recipe is the core aggregate. JSON names follow the frontend contract
// (_id, createdAt, preparationTime).
type Recipe struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Ingredients     []string  `json:"ingredients"`
	Instructions    string    `json:"instructions"`
	Author          string    `json:"author"`
	Category        *string   `json:"category,omitempty"`
	PreparationTime *float64  `json:"preparationTime,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
