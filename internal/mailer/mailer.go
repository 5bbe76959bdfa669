// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Email     string
	Password  string
	FromName  string
	FromEmail string
}

// Sender abstracts the transport so tests can capture outgoing mail.
type Sender interface {
	Send(addr string, a smtp.Auth, e *email.Email) error
}

type smtpSender struct{}

func (smtpSender) Send(addr string, a smtp.Auth, e *email.Email) error {
	return e.Send(addr, a)
}

type Mailer struct {
	cfg    SMTPConfig
	sender Sender
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, sender: smtpSender{}}
}

// NewMailerWithSender is NewMailer with a custom transport.
func NewMailerWithSender(cfg SMTPConfig, sender Sender) *Mailer {
	return &Mailer{cfg: cfg, sender: sender}
}

// Send delivers a plain-text message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.from()
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	hostAndPort := strings.Join([]string{
		m.cfg.Host,
		strconv.Itoa(m.cfg.Port),
	}, ":")

	var plainAuth smtp.Auth
	if m.cfg.Email != "" {
		plainAuth = smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	}

	if err := m.sender.Send(hostAndPort, plainAuth, e); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) from() string {
	if m.cfg.FromName == "" {
		return m.cfg.FromEmail
	}
	return fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
}
