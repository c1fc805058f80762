package handler

import (
	"github.com/recipehub/recipe-api/internal/core/ports"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type recipeRequest struct {
	Title           string   `json:"title"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	Author          string   `json:"author"`
	Category        *string  `json:"category,omitempty"`
	PreparationTime *float64 `json:"preparationTime,omitempty"`
}

func (r recipeRequest) toCreateInput(idempotencyKey, actor string) ports.CreateRecipeInput {
	return ports.CreateRecipeInput{
		Title:           r.Title,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Author:          r.Author,
		Category:        r.Category,
		PreparationTime: r.PreparationTime,
		IdempotencyKey:  idempotencyKey,
		Actor:           actor,
	}
}

func (r recipeRequest) toUpdateInput(id, actor string) ports.UpdateRecipeInput {
	return ports.UpdateRecipeInput{
		ID:              id,
		Title:           r.Title,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Author:          r.Author,
		Category:        r.Category,
		PreparationTime: r.PreparationTime,
		Actor:           actor,
	}
}
