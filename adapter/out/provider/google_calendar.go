// Package provider holds calendar backend adapters.
package provider

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"inboxcal/core/domain"
	"inboxcal/core/port/out"
	"inboxcal/pkg/apperr"
	"inboxcal/pkg/logger"
)

// Video-conferencing hosts that get a Google Meet conference resource
// auto-provisioned on the event.
var conferenceDomains = []string{"meet.google.com"}

// GoogleCalendarAdapter implements out.CalendarPort for Google Calendar.
type GoogleCalendarAdapter struct {
	service    *calendar.Service
	calendarID string
	timezone   string
	cb         *gobreaker.CircuitBreaker
}

// NewGoogleCalendarAdapter creates a Google Calendar adapter. calendarID
// defaults to "primary"; timezone is the reference zone attached to event
// times.
func NewGoogleCalendarAdapter(ctx context.Context, config *oauth2.Config, token *oauth2.Token, calendarID, timezone string) (*GoogleCalendarAdapter, error) {
	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.CalendarError("create service", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	cbSettings := gobreaker.Settings{
		Name:        "calendar-api",
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

	return &GoogleCalendarAdapter{
		service:    service,
		calendarID: calendarID,
		timezone:   timezone,
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
	}, nil
}

// InsertEvent creates the event and returns its HTML link.
func (a *GoogleCalendarAdapter) InsertEvent(ctx context.Context, rec *domain.MeetingRecord) (string, error) {
	event := a.buildEvent(rec)

	result, err := a.cb.Execute(func() (any, error) {
		return a.service.Events.Insert(a.calendarID, event).
			ConferenceDataVersion(1).
			Context(ctx).
			Do()
	})
	if err != nil {
		return "", apperr.CalendarError("insert event", err)
	}

	return result.(*calendar.Event).HtmlLink, nil
}

// buildEvent maps a finished MeetingRecord onto the Google event shape.
func (a *GoogleCalendarAdapter) buildEvent(rec *domain.MeetingRecord) *calendar.Event {
	summary := rec.Subject
	if summary == "" {
		summary = "New Meeting"
	}

	event := &calendar.Event{
		Summary: summary,
		Start: &calendar.EventDateTime{
			DateTime: rec.Start,
			TimeZone: a.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: rec.End,
			TimeZone: a.timezone,
		},
	}

	if len(rec.Attendees) > 0 {
		event.Attendees = make([]*calendar.EventAttendee, len(rec.Attendees))
		for i, addr := range rec.Attendees {
			event.Attendees[i] = &calendar.EventAttendee{Email: addr}
		}
	}

	if rec.Location != "" {
		event.Location = rec.Location
	}

	if rec.MeetingURL != "" {
		event.Description = "Online meeting link: " + rec.MeetingURL

		if isConferenceURL(rec.MeetingURL) {
			// Request-scoped unique ID keeps conference creation
			// idempotent on retry.
			event.ConferenceData = &calendar.ConferenceData{
				CreateRequest: &calendar.CreateConferenceRequest{
					RequestId: uuid.NewString(),
					ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
						Type: "hangoutsMeet",
					},
				},
			}
		}
	}

	return event
}

func isConferenceURL(url string) bool {
	for _, d := range conferenceDomains {
		if strings.Contains(url, d) {
			return true
		}
	}
	return false
}

// Ensure interface compliance
var _ out.CalendarPort = (*GoogleCalendarAdapter)(nil)
