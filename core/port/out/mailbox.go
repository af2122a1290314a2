package out

import (
	"context"

	"inboxcal/core/domain"
)

// MailboxPort is the outbound port for the mailbox backend.
type MailboxPort interface {
	// ListUnread returns the IDs of unread messages, in backend order.
	ListUnread(ctx context.Context, max int64) ([]string, error)

	// GetMessage fetches a full message by ID.
	GetMessage(ctx context.Context, id string) (*domain.InboundMessage, error)

	// MarkRead clears the unread flag. This is the only durable state the
	// system mutates.
	MarkRead(ctx context.Context, id string) error
}
