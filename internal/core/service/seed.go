package service

import (
	"context"
	"fmt"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

type sampleRecipe struct {
	title        string
	ingredients  []string
	instructions string
	author       string
}

var sampleRecipes = []sampleRecipe{
	{"Spaghetti Carbonara", []string{"spaghetti", "bacon", "eggs", "parmesan cheese"},
		"Cook spaghetti, fry bacon, mix eggs and cheese, combine all.", "John Doe"},
	{"Chicken Alfredo", []string{"chicken", "fettuccine", "alfredo sauce", "garlic"},
		"Cook fettuccine, cook chicken, mix with alfredo sauce, serve.", "Jane Smith"},
	{"Vegetable Stir-Fry", []string{"broccoli", "carrots", "bell peppers", "tofu", "soy sauce"},
		"Stir-fry vegetables and tofu, add soy sauce, serve with rice.", "Alice Johnson"},
	{"Beef Bourguignon", []string{"beef", "red wine", "carrots", "onions", "mushrooms"},
		"Brown beef, sauté vegetables, add wine and simmer for hours.", "Bob Brown"},
	{"Greek Salad", []string{"cucumbers", "tomatoes", "feta cheese", "olives", "red onion"},
		"Chop vegetables, add feta and olives, drizzle with olive oil.", "Chris Green"},
	{"Tomato Soup", []string{"tomatoes", "onions", "garlic", "chicken broth", "cream"},
		"Blend tomatoes, onions, and garlic, simmer with broth, add cream.", "David White"},
	{"Pesto Pasta", []string{"pasta", "pesto", "parmesan cheese", "pine nuts"},
		"Cook pasta, mix with pesto, add parmesan and pine nuts.", "Eva Black"},
	{"Lemon Garlic Shrimp", []string{"shrimp", "lemon", "garlic", "butter", "parsley"},
		"Cook shrimp with lemon, garlic, and butter, garnish with parsley.", "Frank Red"},
}

// SeedSampleRecipes bulk-inserts the demonstration recipes when the store is
// empty and returns how many were inserted. A non-empty store is left as is.
func (s *RecipeService) SeedSampleRecipes(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count recipes: %w", err)
	}
	if n > 0 {
		s.logger.Debug().Int64("existing", n).Msg("recipes present, skipping seed")
		return 0, nil
	}

	now := s.now().UTC()
	recipes := make([]*domain.Recipe, 0, len(sampleRecipes))
	for _, sr := range sampleRecipes {
		recipes = append(recipes, &domain.Recipe{
			Title:        sr.title,
			Ingredients:  append([]string(nil), sr.ingredients...),
			Instructions: sr.instructions,
			Author:       sr.author,
			CreatedAt:    now,
		})
	}

	if err := s.repo.InsertMany(ctx, recipes); err != nil {
		return 0, fmt.Errorf("seed: insert sample recipes: %w", err)
	}

	s.logger.Info().Int("count", len(recipes)).Msg("sample recipes added to the database")
	return len(recipes), nil
}
