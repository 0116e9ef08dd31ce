// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package contact stores messages sent through the public contact form and
// notifies the site inbox.
package contact

import (
	"context"
	"time"

	"github.com/taibuivan/pixelpulse/pkg/pagination"
)

// Message is one contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitInput is the public form payload.
type SubmitInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ListFilter narrows the admin inbox. UnreadOnly hides read messages.
type ListFilter struct {
	UnreadOnly bool
	pagination.Params
}

const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
	FieldRead    = "read"

	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 5000
)

// MsgReceived is returned to the sender once the message is stored.
const MsgReceived = "Thanks, your message has been sent"

type Repository interface {
	Create(context context.Context, message *Message) error
	List(context context.Context, filter ListFilter) ([]*Message, int, error)
	SetRead(context context.Context, id string, read bool) (*Message, error)
	Delete(context context.Context, id string) error
}
