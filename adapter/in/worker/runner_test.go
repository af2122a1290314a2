package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"inboxcal/core/domain"
	"inboxcal/core/service/extraction"
)

const validReply = `{"explanation": "", "meeting_details": {"subject": "Sync", "start_time": "2025-12-01T10:00:00Z"}}`

type stubAnalyzer struct {
	reply string
	err   error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, body string, now time.Time, timezone string) (string, error) {
	return s.reply, s.err
}

type stubMailbox struct {
	unread   []string
	messages map[string]*domain.InboundMessage

	listErr  error
	fetchErr error
	markErr  error

	marked []string
}

func (s *stubMailbox) ListUnread(ctx context.Context, max int64) ([]string, error) {
	return s.unread, s.listErr
}

func (s *stubMailbox) GetMessage(ctx context.Context, id string) (*domain.InboundMessage, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.messages[id], nil
}

func (s *stubMailbox) MarkRead(ctx context.Context, id string) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, id)
	return nil
}

type stubCalendar struct {
	insertErr error
	inserted  []*domain.MeetingRecord
}

func (s *stubCalendar) InsertEvent(ctx context.Context, rec *domain.MeetingRecord) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	s.inserted = append(s.inserted, rec)
	return "https://calendar.example/event/1", nil
}

func testRunner(t *testing.T, mailbox *stubMailbox, cal *stubCalendar, analyzer *stubAnalyzer) *Runner {
	t.Helper()
	now := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	pipeline, err := extraction.NewPipeline(analyzer, "UTC", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewRunner(mailbox, cal, pipeline, 0, 10)
}

func oneMessage() *stubMailbox {
	return &stubMailbox{
		unread: []string{"m1"},
		messages: map[string]*domain.InboundMessage{
			"m1": {ID: "m1", From: "Bob <bob@x.com>", Subject: "Sync", Body: "meet tomorrow"},
		},
	}
}

func TestRunCreatesEventAndMarksRead(t *testing.T) {
	mailbox := oneMessage()
	cal := &stubCalendar{}
	r := testRunner(t, mailbox, cal, &stubAnalyzer{reply: validReply})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cal.inserted) != 1 {
		t.Fatalf("expected 1 inserted event, got %d", len(cal.inserted))
	}
	if cal.inserted[0].Subject != "Sync" {
		t.Errorf("unexpected record: %+v", cal.inserted[0])
	}
	if len(mailbox.marked) != 1 || mailbox.marked[0] != "m1" {
		t.Errorf("expected m1 marked read, got %v", mailbox.marked)
	}
}

func TestRunMarksReadWhenInsertFails(t *testing.T) {
	mailbox := oneMessage()
	cal := &stubCalendar{insertErr: errors.New("backend down")}
	r := testRunner(t, mailbox, cal, &stubAnalyzer{reply: validReply})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// At-most-once policy: a failed insertion must not leave the message
	// unread for reprocessing.
	if len(mailbox.marked) != 1 {
		t.Errorf("expected message marked read despite insert failure, got %v", mailbox.marked)
	}
}

func TestRunMarksReadWhenSkipped(t *testing.T) {
	mailbox := oneMessage()
	cal := &stubCalendar{}
	r := testRunner(t, mailbox, cal, &stubAnalyzer{reply: "no json here"})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cal.inserted) != 0 {
		t.Errorf("expected no inserted events, got %d", len(cal.inserted))
	}
	if len(mailbox.marked) != 1 {
		t.Errorf("expected skipped message marked read, got %v", mailbox.marked)
	}
}

func TestRunLeavesMessageUnreadWhenFetchFails(t *testing.T) {
	mailbox := oneMessage()
	mailbox.fetchErr = errors.New("transient")
	cal := &stubCalendar{}
	r := testRunner(t, mailbox, cal, &stubAnalyzer{reply: validReply})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailbox.marked) != 0 {
		t.Errorf("expected no messages marked read, got %v", mailbox.marked)
	}
}

func TestRunPropagatesListError(t *testing.T) {
	mailbox := &stubMailbox{listErr: errors.New("unavailable")}
	r := testRunner(t, mailbox, &stubCalendar{}, &stubAnalyzer{reply: validReply})

	if err := r.Run(context.Background()); err == nil {
		t.Error("expected error from failing unread listing")
	}
}

func TestRunProcessesWholeBatch(t *testing.T) {
	mailbox := &stubMailbox{
		unread: []string{"m1", "m2", "m3"},
		messages: map[string]*domain.InboundMessage{
			"m1": {ID: "m1", From: "a@x.com", Body: "prose only"},
			"m2": {ID: "m2", From: "Bob <bob@x.com>", Body: "meet tomorrow"},
			"m3": {ID: "m3", From: "c@x.com", Body: "another"},
		},
	}
	cal := &stubCalendar{}
	r := testRunner(t, mailbox, cal, &stubAnalyzer{reply: validReply})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailbox.marked) != 3 {
		t.Errorf("expected all 3 messages marked read, got %v", mailbox.marked)
	}
	if len(cal.inserted) != 3 {
		t.Errorf("expected 3 inserted events, got %d", len(cal.inserted))
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	mailbox := oneMessage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := testRunner(t, mailbox, &stubCalendar{}, &stubAnalyzer{reply: validReply})
	if err := r.Run(ctx); err == nil {
		t.Error("expected context error")
	}
	if len(mailbox.marked) != 0 {
		t.Errorf("expected no processing after cancellation, got %v", mailbox.marked)
	}
}
