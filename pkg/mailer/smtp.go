package mailer

import (
	"fmt"

	"github.com/cakpo-corneille/niasotac/pkg/config"
	mail "gopkg.in/mail.v2"
)

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer validates the SMTP settings and builds the dialer.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("default from address is required")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.DefaultFrom,
	}, nil
}

// Send renders the template and relays the message.
func (m *SMTPMailer) Send(templateFile, email string, data any) error {
	subject, body, err := render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", email, err)
	}
	return nil
}
