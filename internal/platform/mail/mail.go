// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outbound email (password-reset codes, contact form
notifications).

Delivery is best-effort everywhere in PixelPulse: callers use [SendAsync] so a
slow or failing SMTP server never delays or fails an HTTP request.
*/
package mail

import (
	"context"
	"log/slog"
	"time"
)

// SendTimeout bounds a single delivery attempt started by [SendAsync].
const SendTimeout = 15 * time.Second

// Message is a plain-text email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, message Message) error
}

// # Log Mailer

// LogMailer writes messages to the log instead of sending them. It is used
// when SMTP is not configured, which keeps local development self-contained.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (mailer *LogMailer) Send(ctx context.Context, message Message) error {
	mailer.logger.InfoContext(ctx, "mail_not_sent_smtp_disabled",
		slog.Any("to", message.To),
		slog.String("subject", message.Subject),
		slog.Int("body_bytes", len(message.Text)),
	)
	return nil
}

// # Async Delivery

// SendAsync delivers message in a goroutine detached from the request
// context. Failures are logged and otherwise ignored.
func SendAsync(ctx context.Context, mailer Mailer, message Message, logger *slog.Logger) {
	detached := context.WithoutCancel(ctx)

	go func() {
		sendCtx, cancel := context.WithTimeout(detached, SendTimeout)
		defer cancel()

		if err := mailer.Send(sendCtx, message); err != nil {
			logger.WarnContext(sendCtx, "mail_delivery_failed",
				slog.String("subject", message.Subject),
				slog.Any("error", err),
			)
		}
	}()
}
