// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/mail"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

type Service struct {
	repo   Repository
	mailer mail.Mailer
	inbox  string
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the contact service. With an empty inbox submissions
// are stored but nobody is notified.
func NewService(repo Repository, mailer mail.Mailer, inbox string, logger *slog.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, inbox: inbox, logger: logger, now: time.Now}
}

/*
Submit validates and stores a contact message, then notifies the inbox in
the background. Delivery failures never reach the sender.
*/
func (service *Service) Submit(context context.Context, input SubmitInput) (*Message, error) {
	message := &Message{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Email:     validate.NormalizeEmail(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Body:      strings.TrimSpace(input.Message),
		CreatedAt: service.now().UTC(),
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, message.Name).MaxLen(FieldName, message.Name, MaxNameLength).
		Email(FieldEmail, message.Email).
		Required(FieldSubject, message.Subject).MaxLen(FieldSubject, message.Subject, MaxSubjectLength).
		Required(FieldMessage, message.Body).MaxLen(FieldMessage, message.Body, MaxMessageLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, message); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "contact_message_received", slog.String("message_id", message.ID))

	if service.inbox != "" {
		mail.SendAsync(context, service.mailer, notification(service.inbox, message), service.logger)
	}
	return message, nil
}

func (service *Service) List(context context.Context, filter ListFilter) ([]*Message, int, error) {
	return service.repo.List(context, filter)
}

func (service *Service) MarkRead(context context.Context, id string, read bool) (*Message, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Message")
	}
	return service.repo.SetRead(context, id, read)
}

func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Message")
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "contact_message_deleted", slog.String("message_id", id))
	return nil
}

func notification(inbox string, message *Message) mail.Message {
	return mail.Message{
		To:      []string{inbox},
		ReplyTo: message.Email,
		Subject: "[Contact] " + message.Subject,
		Text: fmt.Sprintf("From: %s <%s>\nReceived: %s\n\n%s\n",
			message.Name, message.Email, message.CreatedAt.Format(time.RFC1123), message.Body),
	}
}
