// Package worker drives one batch over the mailbox.
package worker

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"inboxcal/core/port/out"
	"inboxcal/core/service/extraction"
)

// Runner processes unread messages strictly one at a time: fetch, run the
// extraction pipeline, insert the event, mark read. A fixed delay separates
// messages as a rate-limiting courtesy to the backing APIs.
type Runner struct {
	mailbox  out.MailboxPort
	calendar out.CalendarPort
	pipeline *extraction.Pipeline
	delay    time.Duration
	max      int64
	zlog     zerolog.Logger
}

// NewRunner wires the batch runner.
func NewRunner(mailbox out.MailboxPort, calendar out.CalendarPort, pipeline *extraction.Pipeline, delay time.Duration, max int64) *Runner {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "runner").Logger()

	return &Runner{
		mailbox:  mailbox,
		calendar: calendar,
		pipeline: pipeline,
		delay:    delay,
		max:      max,
		zlog:     zlog,
	}
}

// Run executes one batch. Per-message failures are logged and contained;
// only a failing unread listing or context cancellation aborts the batch.
func (r *Runner) Run(ctx context.Context) error {
	ids, err := r.mailbox.ListUnread(ctx, r.max)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		r.zlog.Info().Msg("No new unread messages")
		return nil
	}
	r.zlog.Info().Int("count", len(ids)).Msg("Processing unread messages")

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.processOne(ctx, id)

		if i < len(ids)-1 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// processOne handles a single message. The message is marked read whether
// or not event creation succeeded: at-most-once, a failed insertion must
// not cause indefinite reprocessing on later runs.
func (r *Runner) processOne(ctx context.Context, id string) {
	zlog := r.zlog.With().Str("message_id", id).Logger()

	msg, err := r.mailbox.GetMessage(ctx, id)
	if err != nil {
		// Without the message there is nothing to mark; it stays unread
		// for the next run.
		zlog.Error().Err(err).Msg("Failed to fetch message")
		return
	}
	zlog.Info().Str("from", msg.From).Str("subject", msg.Subject).Msg("Processing message")

	rec, err := r.pipeline.Process(ctx, msg)
	switch {
	case err == nil:
		link, insertErr := r.calendar.InsertEvent(ctx, rec)
		if insertErr != nil {
			zlog.Error().Err(insertErr).Msg("Failed to create calendar event")
		} else {
			zlog.Info().Str("link", link).Msg("Event created")
		}
	default:
		var se *extraction.SkipError
		if errors.As(err, &se) {
			zlog.Warn().Str("reason", se.Reason).Msg("Message skipped")
		} else {
			zlog.Error().Err(err).Msg("Failed to process message")
		}
	}

	if err := r.mailbox.MarkRead(ctx, id); err != nil {
		zlog.Error().Err(err).Msg("Failed to mark message read")
	}
}
