package usecase

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers best-effort email. Implementations may block; the
// caller treats every send as fire-and-forget-with-logging.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// notify sends after the primary state transition has committed. A
// delivery failure is logged and swallowed; it never upgrades to a
// request-visible error.
func notify(ctx context.Context, logger *zap.Logger, notifier Notifier, to, subject, body string) {
	if notifier == nil || to == "" {
		return
	}
	if err := notifier.Send(ctx, to, subject, body); err != nil {
		logger.Error("Failed to send email notification",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return
	}
	logger.Info("Email notification sent",
		zap.String("to", to),
		zap.String("subject", subject))
}
