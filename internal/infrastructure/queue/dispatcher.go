package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/recipehub/recipe-api/internal/api/metrics"
	"github.com/recipehub/recipe-api/internal/core/domain"
	"github.com/recipehub/recipe-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

// Dispatcher routes recipe activity events to a fixed set of workers using
// consistent hashing on the recipe id, so events for one recipe are recorded
// in the order they were published.
type Dispatcher struct {
	workers []chan domain.RecipeEvent
	service ports.ActivityService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.RecipeEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.RecipeEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Stop has drained their channels.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands an event to the worker responsible for its recipe. It never
// blocks: when the worker's buffer is full, or the dispatcher is stopped, the
// event is dropped and logged.
func (d *Dispatcher) Publish(event domain.RecipeEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher stopped")
		return
	}

	idx := d.shardIndex(event.RecipeID)
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, "worker queue full")
	}
}

// Stop closes the worker channels and waits until buffered events have been
// recorded. Subsequent Publish calls are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) drop(event domain.RecipeEvent, reason string) {
	metrics.ActivityEventsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("recipe_id", event.RecipeID).
		Str("action", string(event.Action)).
		Str("reason", reason).
		Msg("activity event dropped")
}

// shardIndex maps a recipe id deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipeID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipeID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.RecipeEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, event)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.RecipeEvent) {
	start := time.Now()
	rctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	err := d.service.Record(rctx, event)
	metrics.ActivityProcessingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ActivityEventsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("recipe_id", event.RecipeID).
			Int("worker_id", id).
			Msg("activity event recording failed")
		return
	}
	metrics.ActivityEventsTotal.WithLabelValues("recorded").Inc()
}
