package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamblers/ledger-api/internal/pkg/metrics"
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	enqueueTimeout = 2 * time.Second
)

// AuditDispatcher routes audit events to a fixed set of workers using
// consistent hashing on the event's shard key, so events for one user are
// persisted in the order they were recorded. The only exception is an event
// that could not be enqueued within enqueueTimeout: it is written inline and
// may land ahead of older events still waiting in that worker's queue.
// It implements ports.AuditRecorder.
type AuditDispatcher struct {
	workers        []chan domain.AuditEvent
	repo           ports.AuditRepository
	log            zerolog.Logger
	wg             sync.WaitGroup
	enqueueTimeout time.Duration
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. repo may be nil, in which case
// events are only logged.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers:        make([]chan domain.AuditEvent, numWorkers),
		repo:           repo,
		log:            log,
		enqueueTimeout: enqueueTimeout,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record logs the event and enqueues it for persistence. When the target
// worker's buffer is full it waits up to enqueueTimeout for room, then
// persists the event synchronously instead of dropping it.
func (d *AuditDispatcher) Record(ctx context.Context, event domain.AuditEvent) {
	d.log.Info().
		Str("audit_action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Str("target_id", event.TargetID).
		Str("reason", event.Reason).
		Time("occurred_at", event.OccurredAt).
		Msg("audit")

	if d.repo == nil {
		return
	}

	idx := d.shardIndex(event.ShardKey())
	select {
	case d.workers[idx] <- event:
		d.observeDepth(idx)
		return
	default:
	}

	timer := time.NewTimer(d.enqueueTimeout)
	defer timer.Stop()
	select {
	case d.workers[idx] <- event:
		d.observeDepth(idx)
	case <-timer.C:
		d.log.Warn().Int("worker_id", idx).Msg("audit queue full, writing inline")
		d.persist(context.WithoutCancel(ctx), idx, event)
	}
}

func (d *AuditDispatcher) observeDepth(idx int) {
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a shard key deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			d.persist(context.WithoutCancel(ctx), id, event)
		}
	}
}

// drain flushes whatever is still buffered once shutdown begins.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case event := <-ch:
			d.persist(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) persist(ctx context.Context, id int, event domain.AuditEvent) {
	if err := d.repo.InsertEvent(ctx, event); err != nil {
		metrics.AuditErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("audit_action", string(event.Action)).
			Str("target_id", event.TargetID).
			Int("worker_id", id).
			Msg("audit event persistence failed")
	}
}
