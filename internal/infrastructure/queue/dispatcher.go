package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/eventsphere/campus-events/internal/core/domain"
	"github.com/eventsphere/campus-events/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes auth changes to a fixed set of workers using consistent
// hashing on the user id, guaranteeing per-user ordering. Every handler sees
// every change.
type Dispatcher struct {
	workers  []chan domain.AuthChange
	handlers []ports.AuthChangeHandler
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger, handlers ...ports.AuthChangeHandler) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AuthChange, numWorkers),
		handlers: handlers,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a change to the worker responsible for its user.
// The call is non-blocking up to channelBuffer capacity; past that it waits
// for room or for ctx to end, returning ctx.Err() in the latter case.
func (d *Dispatcher) Enqueue(ctx context.Context, change domain.AuthChange) error {
	select {
	case d.workers[d.shardIndex(change.UserID)] <- change:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			for _, h := range d.handlers {
				if err := h.HandleAuthChange(ctx, change); err != nil {
					d.log.Error().Err(err).
						Str("kind", string(change.Kind)).
						Str("user_id", change.UserID).
						Int("worker_id", id).
						Msg("auth change handling failed")
				}
			}
		}
	}
}
