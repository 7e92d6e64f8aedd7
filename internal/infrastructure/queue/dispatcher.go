package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/onless/driving-school-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes verification notices to a fixed set of workers using
// consistent hashing on the email address, so notices for the same account
// are processed in order.
type Dispatcher struct {
	workers []chan ports.VerificationNotice
	service ports.NotificationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VerificationNotice, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VerificationNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a notice to the worker responsible for its email address.
// A full worker buffer drops the notice; registration must not block on
// notification delivery.
func (d *Dispatcher) Enqueue(notice ports.VerificationNotice) {
	select {
	case d.workers[d.shardIndex(notice.Email)] <- notice:
	default:
		d.log.Warn().
			Str("email", notice.Email).
			Msg("verification queue full, notice dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VerificationNotice) {
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, notice); err != nil {
				d.log.Error().Err(err).
					Str("email", notice.Email).
					Int("worker_id", id).
					Msg("verification notice processing failed")
			}
		}
	}
}
