package mailer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// FileMailer writes rendered messages to a directory instead of sending them.
// Each message lands in its own file so local runs can be inspected by hand.
type FileMailer struct {
	dir  string
	from string
	seq  atomic.Int64
}

// NewFileMailer builds a file-backed mailer rooted at dir.
func NewFileMailer(dir, from string) *FileMailer {
	if dir == "" {
		dir = "sent_emails"
	}
	return &FileMailer{dir: dir, from: from}
}

// Send renders the template and writes it to a timestamped file.
func (m *FileMailer) Send(templateFile, email string, data any) error {
	subject, body, err := render(templateFile, data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating mail output dir: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\n", m.from)
	fmt.Fprintf(&msg, "To: %s\n", email)
	fmt.Fprintf(&msg, "Subject: %s\n\n", subject)
	msg.WriteString(body)

	name := fmt.Sprintf("%s-%d.log", time.Now().UTC().Format("20060102-150405"), m.seq.Add(1))
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, []byte(msg.String()), 0o644); err != nil {
		return fmt.Errorf("writing mail file: %w", err)
	}
	return nil
}
