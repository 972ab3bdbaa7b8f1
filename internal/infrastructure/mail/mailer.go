// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/basafinder/basafinder-backend/internal/usecase"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer creates an SMTP-backed notifier.
func NewMailer(cfg Config, logger *zap.Logger) usecase.Notifier {
	return &mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Send delivers one HTML email. SMTP has no context support; the
// dialer's own timeouts bound the call.
func (m *mailer) Send(_ context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
