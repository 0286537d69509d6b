package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/job-tracker-api/pkg/mailer/templates"
)

type failingSender struct{ err error }

func (f failingSender) Send(context.Context, string, string, string, string) error { return f.err }

func TestWorker_Handle(t *testing.T) {
	sender := &recordingSender{}
	w := NewWorker(sender, quietLogger(), time.Second)

	body, err := json.Marshal(EmailJob{
		Template: templates.Welcome,
		Data:     map[string]any{"Name": "Alice", "Email": "alice@jobs.io", "AppName": "Job Tracker"},
	})
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), body))
	assert.Equal(t, "alice@jobs.io", sender.to)
	assert.Equal(t, "Welcome to Job Tracker", sender.subject)
	assert.Contains(t, sender.text, "Alice")
}

func TestWorker_HandlePoison(t *testing.T) {
	w := NewWorker(&recordingSender{}, quietLogger(), 0)

	for name, body := range map[string]string{
		"bad json":         `{`,
		"no recipient":     `{"subject":"s","text":"t"}`,
		"unknown template": `{"to":"a@b.io","template":"nope"}`,
		"no body":          `{"to":"a@b.io","subject":"s"}`,
	} {
		err := w.Handle(context.Background(), []byte(body))
		assert.ErrorIs(t, err, ErrPoison, name)
	}
}

func TestWorker_HandleSendFailureIsRetryable(t *testing.T) {
	boom := errors.New("smtp down")
	w := NewWorker(failingSender{err: boom}, quietLogger(), time.Second)

	err := w.Handle(context.Background(), []byte(`{"to":"a@b.io","subject":"s","text":"t"}`))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrPoison)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(SenderConfig{Driver: DriverMailgun, MailgunDomain: "mg.jobs.io", MailgunAPIKey: "key", MailgunSender: "noreply@jobs.io"})
	require.NoError(t, err)
	assert.IsType(t, &Mailgun{}, s)

	s, err = NewSender(SenderConfig{Driver: DriverSMTP, SMTPHost: "smtp.jobs.io", SMTPPort: 587, SMTPUser: "bot@jobs.io"})
	require.NoError(t, err)
	require.IsType(t, &SMTP{}, s)
	assert.Equal(t, "bot@jobs.io", s.(*SMTP).From)

	_, err = NewSender(SenderConfig{Driver: DriverMailgun})
	assert.ErrorIs(t, err, ErrSenderNotConfigured)

	_, err = NewSender(SenderConfig{Driver: "carrier-pigeon"})
	assert.Error(t, err)
}
