package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/itamhq/itam-api/internal/api/metrics"
	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher implements ports.AuditSink. Records are routed to a fixed set
// of workers by entity and id, so the trail of a single record is written in
// order.
type Dispatcher struct {
	workers []chan domain.AuditRecord
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditRecord, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes what is already queued and exits; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until all workers have stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record queues rec without blocking. A full shard drops the record.
func (d *Dispatcher) Record(rec domain.AuditRecord) {
	idx := d.shardIndex(rec)
	select {
	case d.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditEventsErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().
			Str("entity", rec.Entity).
			Int64("entity_id", rec.EntityID).
			Str("action", string(rec.Action)).
			Int("worker_id", idx).
			Msg("audit queue full, record dropped")
	}
}

// shardIndex maps an entity and id deterministically to a worker index.
func (d *Dispatcher) shardIndex(rec domain.AuditRecord) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rec.Entity))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(strconv.FormatInt(rec.EntityID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case rec := <-ch:
			d.write(ctx, id, rec)
		}
	}
}

func (d *Dispatcher) drain(id int, ch <-chan domain.AuditRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case rec := <-ch:
			d.write(ctx, id, rec)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, rec domain.AuditRecord) {
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Dec()
	start := time.Now()
	if err := d.repo.InsertAudit(ctx, rec); err != nil {
		metrics.AuditEventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		d.log.Error().Err(err).
			Str("entity", rec.Entity).
			Int64("entity_id", rec.EntityID).
			Int("worker_id", id).
			Msg("audit write failed")
		return
	}
	metrics.AuditWriteDuration.WithLabelValues(rec.Entity).Observe(time.Since(start).Seconds())
	metrics.AuditEventsTotal.WithLabelValues(rec.Entity, string(rec.Action)).Inc()
}
