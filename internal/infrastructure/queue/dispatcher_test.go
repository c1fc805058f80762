package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipe-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.RecipeEvent
	err    error
	block  chan struct{}
}

func (s *recordingService) Record(_ context.Context, ev domain.RecipeEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingService) snapshot() []domain.RecipeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RecipeEvent(nil), s.events...)
}

func TestDispatcher_RecordsAllEventsOnStop(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 30; i++ {
		d.Publish(domain.RecipeEvent{RecipeID: fmt.Sprintf("r-%d", i%5), Action: domain.RecipeUpdated})
	}
	d.Stop()

	assert.Len(t, svc.snapshot(), 30)
}

func TestDispatcher_PreservesPerRecipeOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(context.Background())

	actions := []domain.RecipeAction{domain.RecipeCreated, domain.RecipeUpdated, domain.RecipeUpdated, domain.RecipeDeleted}
	for _, a := range actions {
		d.Publish(domain.RecipeEvent{RecipeID: "same", Action: a})
		d.Publish(domain.RecipeEvent{RecipeID: "other", Action: a})
	}
	d.Stop()

	var got []domain.RecipeAction
	for _, ev := range svc.snapshot() {
		if ev.RecipeID == "same" {
			got = append(got, ev.Action)
		}
	}
	assert.Equal(t, actions, got)
}

func TestDispatcher_FailuresDoNotStopWorkers(t *testing.T) {
	svc := &recordingService{err: errors.New("insert failed")}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.RecipeEvent{RecipeID: "a", Action: domain.RecipeCreated})
	d.Publish(domain.RecipeEvent{RecipeID: "b", Action: domain.RecipeCreated})
	d.Stop()

	assert.Len(t, svc.snapshot(), 2)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	// One event is held by the blocked worker; the buffer absorbs channelBuffer
	// more and the rest are dropped without blocking the caller.
	for i := 0; i < channelBuffer+10; i++ {
		d.Publish(domain.RecipeEvent{RecipeID: "r", Action: domain.RecipeUpdated})
	}
	close(svc.block)
	d.Stop()

	got := len(svc.snapshot())
	require.LessOrEqual(t, got, channelBuffer+1)
	assert.GreaterOrEqual(t, got, channelBuffer)
}

func TestDispatcher_PublishAfterStopIsDropped(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()

	assert.NotPanics(t, func() {
		d.Publish(domain.RecipeEvent{RecipeID: "late", Action: domain.RecipeDeleted})
	})
	d.Stop()
	assert.Empty(t, svc.snapshot())
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	require.Len(t, d.workers, defaultWorkers)

	first := d.shardIndex("65f0c0ffee")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("65f0c0ffee"))
	}
}
