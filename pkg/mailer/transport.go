package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transport hands a job to whatever delivers it.
type Transport interface {
	Deliver(ctx context.Context, job EmailJob) error
}

// JSONPublisher is satisfied by helpers.RabbitChannel.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueTransport publishes jobs to RabbitMQ for cmd/email_worker.
type QueueTransport struct {
	Publisher JSONPublisher
}

func (t QueueTransport) Deliver(ctx context.Context, job EmailJob) error {
	return t.Publisher.PublishJSON(ctx, job)
}

// DirectTransport renders in-process and sends through Sender.
type DirectTransport struct {
	Sender Sender
}

func (t DirectTransport) Deliver(ctx context.Context, job EmailJob) error {
	job.Normalize()
	if job.To == "" {
		return fmt.Errorf("email job has no recipient")
	}
	subject, text, html, err := job.Compose()
	if err != nil {
		return err
	}
	return t.Sender.Send(ctx, job.To, subject, text, html)
}

// LogTransport only logs; used when MAIL_SEND_ENABLED=false.
type LogTransport struct {
	Log logrus.FieldLogger
}

func (t LogTransport) Deliver(_ context.Context, job EmailJob) error {
	t.Log.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("mail sending disabled; email skipped")
	return nil
}
