// Package email sends transactional mail over SMTP. When SMTP is not
// configured the mailer is a no-op so environments without a mail relay keep
// working.
package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/vetdesk/backoffice-api/internal/config"
	"github.com/vetdesk/backoffice-api/pkg/circuitbreaker"
)

type Mailer interface {
	SendInvitation(to, firstName, tenantName string) error
}

type smtpMailer struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

type noopMailer struct{}

func NewMailer(cfg config.SMTPConfig) Mailer {
	if !cfg.Enabled() {
		return noopMailer{}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		// A dead relay fails fast instead of stalling every user creation
		// on an SMTP timeout.
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "smtp",
			MaxRequests: 5,
			Timeout:     time.Minute,
		}),
	}
}

func (m *smtpMailer) SendInvitation(to, firstName, tenantName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("You have been added to %s", tenantName))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nAn account was created for you at %s. Sign in with this email address to get started.\n",
		firstName, tenantName,
	))

	err := m.breaker.Execute(func() error {
		return m.dialer.DialAndSend(msg)
	})
	if err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	return nil
}

func (noopMailer) SendInvitation(string, string, string) error { return nil }
