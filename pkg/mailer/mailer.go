// Package mailer sends transactional catalog emails. Two backends exist: an
// SMTP backend for deployments and a file backend that drops rendered messages
// into a directory for local development.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/cakpo-corneille/niasotac/pkg/config"
)

const (
	// ConfirmTemplate is the double opt-in confirmation message.
	ConfirmTemplate = "newsletter_confirm.tmpl"
	// WelcomeTemplate is sent once a subscriber confirms.
	WelcomeTemplate = "newsletter_welcome.tmpl"
)

//go:embed templates
var templateFS embed.FS

// Mailer delivers a rendered template to a single recipient.
type Mailer interface {
	Send(templateFile, email string, data any) error
}

// New selects a backend from the mail configuration.
func New(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Backend {
	case "smtp":
		return NewSMTPMailer(cfg)
	case "file", "":
		return NewFileMailer(cfg.OutputDir, cfg.DefaultFrom), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.Backend)
	}
}

// render parses the named template and produces the subject line and body.
// Templates define a "subject" and a "body" block.
func render(templateFile string, data any) (subject, body string, err error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", fmt.Errorf("parsing template %s: %w", templateFile, err)
	}

	var subjBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subjBuf, "subject", data); err != nil {
		return "", "", fmt.Errorf("rendering subject: %w", err)
	}
	var bodyBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&bodyBuf, "body", data); err != nil {
		return "", "", fmt.Errorf("rendering body: %w", err)
	}
	return subjBuf.String(), bodyBuf.String(), nil
}
