package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	sinkTimeout    = 3 * time.Second
)

// Sink is a named audit destination.
type Sink struct {
	Name string
	ports.AuditSink
}

// Dispatcher fans audit events out to every sink from a fixed set of workers.
// Events are sharded by client IP so one client's events stay in order.
// Record never blocks: when a worker's channel is full the event is dropped.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sinks   []Sink
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sinks []Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers flush what is already queued
// and stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record queues event for delivery. It never blocks and never fails.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	if event.TS.IsZero() {
		event.TS = time.Now().UTC()
	}
	idx := d.shardIndex(event.IP)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
	}
}

// shardIndex maps a client IP deterministically to a worker index.
func (d *Dispatcher) shardIndex(ip string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ip))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case event := <-ch:
					d.deliver(context.WithoutCancel(ctx), event)
					depth.Set(float64(len(ch)))
				default:
					return
				}
			}
		case event := <-ch:
			d.deliver(ctx, event)
			depth.Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event domain.AuditEvent) {
	for _, s := range d.sinks {
		d.write(ctx, s, event)
	}
}

// write calls one sink, swallowing its errors and panics.
func (d *Dispatcher) write(ctx context.Context, s Sink, event domain.AuditEvent) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AuditSinkErrorsTotal.WithLabelValues(s.Name).Inc()
			d.log.Error().Interface("panic", r).Str("sink", s.Name).Msg("audit sink panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()

	if err := s.Write(ctx, event); err != nil {
		metrics.AuditSinkErrorsTotal.WithLabelValues(s.Name).Inc()
		d.log.Warn().Err(err).Str("sink", s.Name).Str("type", event.Type).Msg("audit sink write failed")
	}
}
