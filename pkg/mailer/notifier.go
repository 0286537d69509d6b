package mailer

import (
	"time"

	"github.com/oksasatya/job-tracker-api/pkg/mailer/templates"
)

// Notifier turns account events into template jobs on a Dispatcher.
type Notifier struct {
	Dispatcher *Dispatcher
	Brand      templates.Brand
	AdminEmail string
	now        func() time.Time
}

func NewNotifier(d *Dispatcher, brand templates.Brand, adminEmail string) *Notifier {
	return &Notifier{Dispatcher: d, Brand: brand, AdminEmail: adminEmail, now: time.Now}
}

func (n *Notifier) enqueue(tpl, to string, data templates.EmailData) {
	n.Dispatcher.Enqueue(EmailJob{To: to, Template: tpl, Data: templates.ToMap(data)})
}

func (n *Notifier) SendVerification(name, email, link string, ttl time.Duration) {
	n.enqueue(templates.VerifyEmail, email, n.Brand.Data(name, email,
		templates.WithVerifyURL(link), templates.WithExpiresIn(ttl)))
}

func (n *Notifier) SendWelcome(name, email string) {
	n.enqueue(templates.Welcome, email, n.Brand.Data(name, email))
}

func (n *Notifier) SendPasswordReset(name, email, link string, ttl time.Duration) {
	n.enqueue(templates.ForgotPassword, email, n.Brand.Data(name, email,
		templates.WithResetURL(link), templates.WithExpiresIn(ttl)))
}

// SendAdminNotice tells the configured admin about an account event. Only
// the listed field names and values are included; callers never pass secrets.
func (n *Notifier) SendAdminNotice(event, username, email string, fields map[string]string) {
	if n.AdminEmail == "" {
		return
	}
	n.enqueue(templates.AdminNotice, n.AdminEmail, n.Brand.Data(username, email,
		templates.WithEvent(event), templates.WithChanges(fields), templates.WithTime(n.now())))
}
