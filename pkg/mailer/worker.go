package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrPoison marks a queue message that can never be delivered.
var ErrPoison = errors.New("undeliverable email job")

// Worker renders queued jobs and sends them.
type Worker struct {
	Sender  Sender
	Log     logrus.FieldLogger
	Timeout time.Duration
}

func NewWorker(sender Sender, log logrus.FieldLogger, timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Worker{Sender: sender, Log: log, Timeout: timeout}
}

// Handle processes one message body. Errors wrapping ErrPoison should be
// dropped; any other error is a send failure worth requeueing.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrPoison, err)
	}
	job.Normalize()
	if job.To == "" {
		return fmt.Errorf("%w: no recipient", ErrPoison)
	}
	subject, text, html, err := job.Compose()
	if err != nil {
		return fmt.Errorf("%w: render %s: %v", ErrPoison, job.Template, err)
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return err
	}
	w.Log.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
