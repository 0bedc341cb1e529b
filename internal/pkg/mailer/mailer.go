// Package mailer is the outbound email boundary. Lifecycle code calls it
// fire-and-forget: a failed send is logged, never propagated, and never
// rolls back a state transition.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Templates rendered for lifecycle events. The body text mirrors the
// transactional emails the web layer used to send.
const (
	TemplateRequestAccepted  = "request_accepted"
	TemplateRequestRejected  = "request_rejected"
	TemplateRequestCompleted = "request_completed"
	TemplateVerifyEmail      = "verify_email"
)

type Mailer interface {
	Send(ctx context.Context, to, template string, data map[string]string) error
}

// SMTPMailer sends plain-text mail over SMTP.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTP(host string, port int, from, user, pass string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, template string, data map[string]string) error {
	subject, body := render(template, data)
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("mailer: send %s to %s failed: %v", template, to, err)
		return err
	}
	return nil
}

// LogMailer is the dev/test fallback: logs instead of sending.
type LogMailer struct{}

func NewLog() *LogMailer { return &LogMailer{} }

func (m *LogMailer) Send(ctx context.Context, to, template string, data map[string]string) error {
	subject, _ := render(template, data)
	log.Printf("mailer: [dev] %s -> %s (%s)", template, to, subject)
	return nil
}

func render(template string, data map[string]string) (subject, body string) {
	name := data["name"]
	service := data["service"]
	provider := data["provider"]

	switch template {
	case TemplateRequestAccepted:
		return "Your Service Request has been Accepted",
			fmt.Sprintf("Hi %s, %s has accepted your %s request.", name, provider, service)
	case TemplateRequestRejected:
		return "Your Service Request Status",
			fmt.Sprintf("Hi %s, your %s request was declined by %s.", name, service, provider)
	case TemplateRequestCompleted:
		return "Your Service Request has been Completed",
			fmt.Sprintf("Hi %s, %s has marked your %s request as completed.", name, provider, service)
	case TemplateVerifyEmail:
		return "Verify your email address",
			fmt.Sprintf("Hi %s, verify your email: %s", name, data["verification_url"])
	default:
		return template, fmt.Sprintf("%v", data)
	}
}
