package out

import (
	"context"

	"inboxcal/core/domain"
)

// CalendarPort is the outbound port for the calendar backend.
type CalendarPort interface {
	// InsertEvent creates an event from a finished record and returns a
	// link to the created event.
	InsertEvent(ctx context.Context, rec *domain.MeetingRecord) (string, error)
}
