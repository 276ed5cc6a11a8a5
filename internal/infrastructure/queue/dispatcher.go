package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/bookbay/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes catalog events to a fixed set of workers using consistent
// hashing on the book id, guaranteeing per-book event ordering in the audit
// trail.
type Dispatcher struct {
	workers []chan ports.CatalogEventInput
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.CatalogEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.CatalogEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its book id.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.CatalogEventInput) {
	d.workers[d.shardIndex(event.BookID)] <- event
}

// EnqueueBatch enqueues multiple events preserving per-book ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.CatalogEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a book id deterministically to a worker index.
func (d *Dispatcher) shardIndex(bookID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.CatalogEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("book_id", event.BookID).
					Int("worker_id", id).
					Msg("catalog event processing failed")
			}
		}
	}
}
