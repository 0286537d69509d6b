package mailer

import (
	"errors"
	"fmt"
)

const (
	DriverMailgun = "mailgun"
	DriverSMTP    = "smtp"
)

// ErrSenderNotConfigured is returned when the selected driver lacks credentials.
var ErrSenderNotConfigured = errors.New("mail sender not configured")

// SenderConfig selects and configures the outbound provider.
type SenderConfig struct {
	Driver string

	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	From         string
}

// NewSender builds the Sender named by c.Driver.
func NewSender(c SenderConfig) (Sender, error) {
	switch c.Driver {
	case DriverMailgun, "":
		if c.MailgunDomain == "" || c.MailgunAPIKey == "" || c.MailgunSender == "" {
			return nil, fmt.Errorf("%w: mailgun domain, api key and sender are required", ErrSenderNotConfigured)
		}
		return NewMailgun(c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender), nil
	case DriverSMTP:
		if c.SMTPHost == "" || c.SMTPPort == 0 {
			return nil, fmt.Errorf("%w: smtp host and port are required", ErrSenderNotConfigured)
		}
		from := c.From
		if from == "" {
			from = c.SMTPUser
		}
		if from == "" {
			return nil, fmt.Errorf("%w: smtp from address is required", ErrSenderNotConfigured)
		}
		return NewSMTP(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, from), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", c.Driver)
	}
}
