// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
)

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg    SMTPConfig
	auth   smtp.Auth
	logger *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer. Auth is skipped when no username is set.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{cfg: cfg, auth: auth, logger: logger}
}

// Send implements [Mailer].
//
// The underlying client has no context support; the caller's deadline is
// honored by abandoning the wait, not by aborting the SMTP session.
func (mailer *SMTPMailer) Send(ctx context.Context, message Message) error {
	if len(message.To) == 0 {
		return errors.New("mail: message has no recipients")
	}

	envelope := email.NewEmail()
	envelope.From = mailer.cfg.From
	envelope.To = message.To
	envelope.Subject = message.Subject
	envelope.Text = []byte(message.Text)
	if message.ReplyTo != "" {
		envelope.ReplyTo = []string{message.ReplyTo}
	}

	addr := net.JoinHostPort(mailer.cfg.Host, strconv.Itoa(mailer.cfg.Port))

	done := make(chan error, 1)
	go func() {
		done <- envelope.Send(addr, mailer.auth)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: send failed: %w", err)
		}
		mailer.logger.InfoContext(ctx, "mail_sent",
			slog.Int("recipients", len(message.To)),
			slog.String("subject", message.Subject),
		)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail: send abandoned: %w", ctx.Err())
	}
}
