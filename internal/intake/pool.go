package intake

import (
	"context"
	"fmt"
	"sync"

	"complaintdesk/backend/internal/line"
	"complaintdesk/backend/internal/metrics"

	"github.com/sirupsen/logrus"
)

// EventProcessor handles a single webhook event.
type EventProcessor interface {
	Process(ctx context.Context, ev line.Event) error
}

// Pool is a bounded queue of webhook events drained by a fixed number of
// workers. Enqueue never blocks; events that do not fit are dropped and
// counted.
type Pool struct {
	proc    EventProcessor
	jobs    chan line.Event
	workers int
	log     logrus.FieldLogger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool creates a pool with a queue of queueSize events.
func NewPool(proc EventProcessor, workers, queueSize int, log logrus.FieldLogger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		proc:    proc,
		jobs:    make(chan line.Event, queueSize),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. Events are processed with ctx.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx, i+1)
	}
	p.log.WithField("workers", p.workers).Info("intake workers started")
}

// Enqueue hands events to the workers and returns how many were accepted.
func (p *Pool) Enqueue(events []line.Event) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	accepted := 0
	for _, ev := range events {
		if p.closed {
			p.drop(ev, "intake is shutting down")
			continue
		}
		select {
		case p.jobs <- ev:
			accepted++
		default:
			p.drop(ev, "intake queue is full")
		}
	}
	return accepted
}

func (p *Pool) drop(ev line.Event, reason string) {
	metrics.WebhookEvents.WithLabelValues(string(ev.Kind), "dropped").Inc()
	p.log.WithFields(logrus.Fields{"event_id": ev.ID, "kind": ev.Kind}).Error(reason + ", event dropped")
}

// Close stops accepting events and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("intake workers stopped")
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	for ev := range p.jobs {
		p.handle(ctx, id, ev)
	}
}

// handle runs one event so that an error or panic only affects that event.
func (p *Pool) handle(ctx context.Context, worker int, ev line.Event) {
	log := p.log.WithFields(logrus.Fields{"worker": worker, "event_id": ev.ID, "kind": ev.Kind})

	defer func() {
		if r := recover(); r != nil {
			metrics.WebhookEvents.WithLabelValues(string(ev.Kind), metrics.ResultFailed).Inc()
			log.WithError(fmt.Errorf("panic: %v", r)).Error("webhook event processing panicked")
		}
	}()

	if err := p.proc.Process(ctx, ev); err != nil {
		log.WithError(err).Error("failed to process webhook event")
		return
	}
	log.Debug("webhook event processed")
}
