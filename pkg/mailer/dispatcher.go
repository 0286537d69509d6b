package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher decouples request handlers from mail delivery. Enqueue never
// blocks; a single goroutine drains the buffer into the Transport.
type Dispatcher struct {
	transport Transport
	log       logrus.FieldLogger
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan EmailJob
	done   chan struct{}
}

func NewDispatcher(t Transport, log logrus.FieldLogger, buffer int, timeout time.Duration) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	d := &Dispatcher{
		transport: t,
		log:       log,
		timeout:   timeout,
		jobs:      make(chan EmailJob, buffer),
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue reports whether the job was accepted. Jobs are dropped (and logged)
// when the buffer is full or the dispatcher is closed.
func (d *Dispatcher) Enqueue(job EmailJob) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.WithField("template", job.Template).Warn("mail dispatcher closed; email dropped")
		return false
	}
	select {
	case d.jobs <- job:
		return true
	default:
		d.log.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Warn("mail buffer full; email dropped")
		return false
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for job := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.transport.Deliver(ctx, job); err != nil {
			d.log.WithFields(logrus.Fields{
				"to":       job.To,
				"template": job.Template,
				"error":    err.Error(),
			}).Error("email delivery failed")
		}
		cancel()
	}
}

// Close stops accepting jobs and waits for the buffer to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
