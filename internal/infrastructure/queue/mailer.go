package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher delivers queued emails through a fixed set of workers,
// sharded by recipient so retries for one address never reorder against each
// other. Delivery is fire-and-forget: failures are logged, never surfaced to
// the request that queued the email.
type MailDispatcher struct {
	workers []chan ports.EmailJob
	sender  ports.EmailSender
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, sender ports.EmailSender, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.EmailJob, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its recipient. The call
// is non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) Enqueue(job ports.EmailJob) {
	metrics.EmailsQueuedTotal.WithLabelValues(string(job.Kind)).Inc()
	d.workers[d.shardIndex(job.Recipient)] <- job
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, job); err != nil {
				d.log.Error().Err(err).
					Str("recipient", job.Recipient).
					Str("kind", string(job.Kind)).
					Int("worker_id", id).
					Msg("email delivery failed")
			}
		}
	}
}
