package auth

import (
	"context"
	"log/slog"
)

// Mailer delivers account links to users.
type Mailer interface {
	SendVerification(ctx context.Context, email, link string) error
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer writes links to the log instead of sending mail.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}

	return m.Logger
}

func (m LogMailer) SendVerification(ctx context.Context, email, link string) error {
	m.logger().InfoContext(ctx, "verification link", "email", email, "link", link)
	return nil
}

func (m LogMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.logger().InfoContext(ctx, "password reset link", "email", email, "link", link)
	return nil
}
