// Package gmail provides the Gmail mailbox adapter.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"inboxcal/core/domain"
	"inboxcal/core/port/out"
	"inboxcal/pkg/apperr"
	"inboxcal/pkg/logger"
)

// Adapter implements out.MailboxPort for Gmail.
type Adapter struct {
	service *gmail.Service
	cb      *gobreaker.CircuitBreaker
}

// NewAdapter creates a Gmail adapter from an OAuth config and token.
func NewAdapter(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*Adapter, error) {
	client := config.Client(ctx, token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.MailboxError("create service", err)
	}

	cbSettings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Adapter{
		service: service,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
	}, nil
}

// ListUnread returns the IDs of unread messages, in Gmail listing order.
func (a *Adapter) ListUnread(ctx context.Context, max int64) ([]string, error) {
	result, err := a.cb.Execute(func() (any, error) {
		req := a.service.Users.Messages.List("me").Q("is:unread")
		if max > 0 {
			req = req.MaxResults(max)
		}
		return req.Context(ctx).Do()
	})
	if err != nil {
		return nil, apperr.MailboxError("list unread", err)
	}

	resp := result.(*gmail.ListMessagesResponse)
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches one message in full format and extracts the From and
// Subject headers plus the decoded text/plain body.
func (a *Adapter) GetMessage(ctx context.Context, id string) (*domain.InboundMessage, error) {
	result, err := a.cb.Execute(func() (any, error) {
		return a.service.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return nil, apperr.MailboxError(fmt.Sprintf("get message %s", id), err)
	}

	return parseMessage(result.(*gmail.Message)), nil
}

// MarkRead removes the UNREAD label from a message.
func (a *Adapter) MarkRead(ctx context.Context, id string) error {
	_, err := a.cb.Execute(func() (any, error) {
		return a.service.Users.Messages.Modify("me", id, &gmail.ModifyMessageRequest{
			RemoveLabelIds: []string{"UNREAD"},
		}).Context(ctx).Do()
	})
	if err != nil {
		return apperr.MailboxError(fmt.Sprintf("mark read %s", id), err)
	}
	return nil
}

// Helper functions

func parseMessage(msg *gmail.Message) *domain.InboundMessage {
	m := &domain.InboundMessage{ID: msg.Id}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "From":
				m.From = header.Value
			case "Subject":
				m.Subject = header.Value
			}
		}
		m.Body = parseTextBody(msg.Payload)
	}

	return m
}

// parseTextBody walks the MIME tree and returns the first text/plain part.
func parseTextBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err != nil {
			return ""
		}
		return string(data)
	}

	for _, part := range payload.Parts {
		if body := parseTextBody(part); body != "" {
			return body
		}
	}

	return ""
}

// Ensure interface compliance
var _ out.MailboxPort = (*Adapter)(nil)
