package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Mailer delivers plain text mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when no host is configured.
func NewMailer(cfg SMTPConfig, log *slog.Logger) Mailer {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Host == "" {
		return &LogMailer{log: log}
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used in development.
type LogMailer struct {
	log *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.InfoContext(ctx, "SMTP not configured, mail not sent", "to", to, "subject", subject)
	// Bodies can carry reset links.
	m.log.DebugContext(ctx, "unsent mail body", "to", to, "body", body)
	return nil
}
