package mailer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Dr-Stone27/Researchub/internal/logging"
)

// Dispatcher queues messages on a buffered channel and delivers them from a
// single background worker. Enqueue never blocks the caller: when the queue
// is full the message is dropped and counted.
type Dispatcher struct {
	mailer  Mailer
	log     logging.Logger
	ch      chan Message
	wg      sync.WaitGroup
	dropped atomic.Uint64

	// mu orders Enqueue sends against Close, so the channel is never
	// closed between the closed check and the send.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts the delivery worker. Close must be called to drain
// queued messages on shutdown.
func NewDispatcher(m Mailer, log logging.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		mailer: m,
		log:    log,
		ch:     make(chan Message, queueSize),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.ch {
		if err := d.mailer.Send(msg); err != nil {
			d.log.Error(context.Background(), "email delivery failed",
				"to", msg.To, "subject", msg.Subject, "error", err)
		}
	}
}

// Enqueue hands a message to the worker. It returns false when the queue is
// full or the dispatcher is closed; the message is not delivered.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}
	select {
	case d.ch <- msg:
		return true
	default:
		d.dropped.Add(1)
		d.log.Warn(context.Background(), "email queue full, message dropped",
			"to", msg.To, "subject", msg.Subject)
		return false
	}
}

// Dropped reports how many messages were discarded because the queue was full.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting messages and waits for queued ones to be delivered.
// It is safe to call more than once and safe to call concurrently with
// Enqueue.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
