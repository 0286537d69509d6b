package mailer

import (
	"fmt"
	"strings"

	"github.com/oksasatya/job-tracker-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// When Template is set, Subject/Text/HTML are rendered from it and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // verify_email, welcome, forgot_password, admin_notice
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize fills To from Data["RecipientEmail"] or Data["Email"] when empty.
func (j *EmailJob) Normalize() {
	j.To = strings.TrimSpace(j.To)
	if j.To != "" || j.Data == nil {
		return
	}
	for _, k := range []string{"RecipientEmail", "Email"} {
		if v, ok := j.Data[k]; ok {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				j.To = s
				return
			}
		}
	}
}

// Compose returns the final subject, text and html of the job.
func (j *EmailJob) Compose() (subject, text, html string, err error) {
	if j.Template == "" {
		if j.Subject == "" || (j.Text == "" && j.HTML == "") {
			return "", "", "", fmt.Errorf("email job without template needs subject and body")
		}
		return j.Subject, j.Text, j.HTML, nil
	}
	return templates.Render(j.Template, j.Data)
}
