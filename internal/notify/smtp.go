// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer emails each digest to a single recipient.
type SMTPMailer struct {
	cfg       types.MailConfig
	recipient string
	send      sendFunc
	now       func() time.Time
}

// NewSMTPMailer returns a mailer that relays through cfg.Host.
func NewSMTPMailer(cfg types.MailConfig, recipient string) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, recipient: recipient, send: smtp.SendMail, now: time.Now}
}

// Notify sends the digest for term. An empty batch sends nothing.
func (m *SMTPMailer) Notify(ctx context.Context, term string, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.cfg.Host == "" {
		return fmt.Errorf("mail host is not configured")
	}

	body, err := FormatDigest(term, articles)
	if err != nil {
		return err
	}

	from := m.cfg.From
	if from == "" {
		from = m.recipient
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(from, m.recipient, Subject(term, len(articles)), body, m.now())
	if err := m.send(m.cfg.Addr(), auth, from, []string{m.recipient}, msg); err != nil {
		return fmt.Errorf("sending digest for %q to %s: %w", term, m.recipient, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string, date time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", date.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}
