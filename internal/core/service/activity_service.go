package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
)

type activityService struct {
	eventRepo ports.EventRepository
	log       zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(eventRepo ports.EventRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{
		eventRepo: eventRepo,
		log:       log,
	}
}

// Record validates and persists a single recipe activity event.
func (s *activityService) Record(ctx context.Context, ev domain.RecipeEvent) error {
	if ev.RecipeID == "" {
		return fmt.Errorf("record activity: %w: recipe id is required", domain.ErrValidation)
	}
	switch ev.Action {
	case domain.RecipeCreated, domain.RecipeUpdated, domain.RecipeDeleted:
	default:
		return fmt.Errorf("record activity: %w: unknown action %q", domain.ErrValidation, ev.Action)
	}

	if err := s.eventRepo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	s.log.Debug().
		Str("recipe_id", ev.RecipeID).
		Str("action", string(ev.Action)).
		Str("actor", ev.Actor).
		Msg("activity recorded")

	return nil
}
