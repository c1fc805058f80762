package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
)

// IdempotencyStore remembers which recipe an Idempotency-Key produced (Redis).
type IdempotencyStore interface {
	// Reserve atomically claims key. When it is already held, recipeID is the
	// remembered recipe, or "" while the holder is still creating.
	Reserve(ctx context.Context, key string) (reserved bool, recipeID string, err error)
	Remember(ctx context.Context, key, recipeID string) error
	Release(ctx context.Context, key string) error
}

type RecipeService struct {
	repo     ports.RecipeRepository
	idem     IdempotencyStore        // optional
	activity ports.ActivityPublisher // optional
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRecipeService wires the recipe use cases. idem and activity may be nil.
func NewRecipeService(repo ports.RecipeRepository, idem IdempotencyStore, activity ports.ActivityPublisher, logger zerolog.Logger) *RecipeService {
	return &RecipeService{
		repo:     repo,
		idem:     idem,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRecipe persists a new recipe. If an idempotency key is provided and
// already seen, the previously created recipe is returned without side effects.
// A key whose first request is still running yields
// domain.ErrIdempotencyInProgress.
func (s *RecipeService) CreateRecipe(ctx context.Context, input ports.CreateRecipeInput) (*ports.CreateRecipeResult, error) {
	input.Ingredients = nonBlank(input.Ingredients)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	if key == "" || s.idem == nil {
		return s.create(ctx, input, "")
	}

	reserved, id, err := s.idem.Reserve(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, creating anyway")
		return s.create(ctx, input, "")
	case reserved:
		return s.create(ctx, input, key)
	case id == "":
		return nil, domain.ErrIdempotencyInProgress
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err == nil {
		s.logger.Info().Str("idempotency_key", key).Str("recipe_id", id).Msg("idempotent replay")
		return &ports.CreateRecipeResult{Recipe: existing, AlreadyExisted: true}, nil
	}
	if !errors.Is(err, domain.ErrRecipeNotFound) {
		return nil, fmt.Errorf("idempotent replay: %w", err)
	}
	// The remembered recipe was deleted since; the key now points at a new one.
	return s.create(ctx, input, key)
}

// create stores the recipe and, when key is set, remembers or releases it
// depending on the outcome.
func (s *RecipeService) create(ctx context.Context, input ports.CreateRecipeInput, key string) (*ports.CreateRecipeResult, error) {
	recipe := &domain.Recipe{
		Title:           input.Title,
		Ingredients:     input.Ingredients,
		Instructions:    input.Instructions,
		Author:          input.Author,
		Category:        input.Category,
		PreparationTime: input.PreparationTime,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.repo.Create(ctx, recipe); err != nil {
		s.logger.Error().Err(err).Msg("failed to create recipe")
		if key != "" {
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	if key != "" {
		if err := s.idem.Remember(ctx, key, recipe.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("recipe_id", recipe.ID).Str("author", recipe.Author).Msg("recipe created")
	s.publish(domain.RecipeCreated, recipe.ID, recipe.Title, input.Actor)

	return &ports.CreateRecipeResult{Recipe: recipe}, nil
}

// ListRecipes returns every recipe in store order; never nil.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	if recipes == nil {
		recipes = []*domain.Recipe{}
	}
	return recipes, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// UpdateRecipe replaces title, ingredients, instructions and author. The id
// and createdAt of the stored record are preserved.
func (s *RecipeService) UpdateRecipe(ctx context.Context, input ports.UpdateRecipeInput) (*domain.Recipe, error) {
	input.Ingredients = nonBlank(input.Ingredients)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, input.ID, ports.RecipeChanges{
		Title:           input.Title,
		Ingredients:     input.Ingredients,
		Instructions:    input.Instructions,
		Author:          input.Author,
		Category:        input.Category,
		PreparationTime: input.PreparationTime,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("recipe_id", input.ID).Msg("failed to update recipe")
		return nil, fmt.Errorf("update recipe: %w", err)
	}

	s.logger.Info().Str("recipe_id", updated.ID).Msg("recipe updated")
	s.publish(domain.RecipeUpdated, updated.ID, updated.Title, input.Actor)

	return updated, nil
}

// DeleteRecipe removes the recipe. Deleting an id that no longer resolves
// returns domain.ErrRecipeNotFound.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("recipe_id", id).Msg("failed to delete recipe")
		return fmt.Errorf("delete recipe: %w", err)
	}

	s.logger.Info().Str("recipe_id", id).Msg("recipe deleted")
	s.publish(domain.RecipeDeleted, id, "", actor)

	return nil
}

func (s *RecipeService) publish(action domain.RecipeAction, recipeID, title, actor string) {
	if s.activity == nil {
		return
	}
	s.activity.Publish(domain.RecipeEvent{
		RecipeID:   recipeID,
		Action:     action,
		Title:      title,
		Actor:      actor,
		OccurredAt: s.now().UTC(),
	})
}
