package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"inboxcal/core/domain"
	"inboxcal/pkg/logger"
)

// Canonical address syntax: ASCII local part, dot-separated domain labels,
// TLD of at least two letters.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Sender address inside angle brackets, e.g. `"Bob" <bob@x.com>`.
var angleAddrPattern = regexp.MustCompile(`<(.*?)>`)

// SkipError marks a message as non-actionable. The runner logs the reason
// and moves on; the message is still marked read afterwards.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

func skip(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// Validator turns a model verdict plus the original message into a
// finished MeetingRecord, or a skip decision with a reason.
type Validator struct {
	norm *Normalizer
	now  func() time.Time
	log  *logger.Logger
}

// NewValidator creates a Validator bound to a reference-zone normalizer.
// now is the clock used for the future-start guard; nil means time.Now.
func NewValidator(norm *Normalizer, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		norm: norm,
		now:  now,
		log:  logger.Default(),
	}
}

// Build validates and normalizes a verdict into a MeetingRecord.
// A *SkipError return means the message is not actionable.
func (v *Validator) Build(verdict *domain.Verdict, msg *domain.InboundMessage) (*domain.MeetingRecord, error) {
	if verdict.Rejected() {
		return nil, skip("%s", verdict.Explanation)
	}
	if verdict.Details.Empty() {
		return nil, skip("incomplete response")
	}
	details := verdict.Details

	endRaw := details.EndTime
	if endRaw == "" {
		// Duration policy: exactly one hour when the model gives no end
		// time, preserving the offset semantics of the start time.
		start, err := v.norm.Parse(details.StartTime)
		if err != nil {
			return nil, skip("cannot derive end time: %v", err)
		}
		endRaw = start.Add(time.Hour).Format(time.RFC3339)
		v.log.WithMessageID(msg.ID).Info("End time not provided, defaulting to a 1-hour duration")
	}

	start, err := v.norm.Normalize(details.StartTime)
	if err != nil {
		return nil, skip("unparsable start time: %v", err)
	}
	end, err := v.norm.Normalize(endRaw)
	if err != nil {
		return nil, skip("unparsable end time: %v", err)
	}

	// Local authoritative guards. The model is asked to reject past start
	// times itself, but its judgement is advisory only.
	startT, _ := time.Parse(time.RFC3339, start)
	endT, _ := time.Parse(time.RFC3339, end)
	if !startT.After(v.now()) {
		return nil, skip("start time %s is not in the future", start)
	}
	if !endT.After(startT) {
		return nil, skip("end time %s is not after start time %s", end, start)
	}

	return &domain.MeetingRecord{
		Subject:    details.Subject,
		Start:      start,
		End:        end,
		Attendees:  v.buildAttendees(details.Attendees, msg),
		Location:   details.Location,
		MeetingURL: details.OnlineMeetingURL,
	}, nil
}

// buildAttendees validates the model's attendee list, dropping malformed
// addresses, then appends the sender unless already present. The sender is
// always included unless their address is unparseable.
func (v *Validator) buildAttendees(proposed []string, msg *domain.InboundMessage) []string {
	attendees := make([]string, 0, len(proposed)+1)
	seen := make(map[string]bool, len(proposed)+1)

	for _, addr := range proposed {
		if !emailPattern.MatchString(addr) {
			v.log.WithMessageID(msg.ID).Warn("Dropping invalid attendee address %q", addr)
			continue
		}
		if seen[addr] {
			continue
		}
		seen[addr] = true
		attendees = append(attendees, addr)
	}

	sender := senderAddress(msg.From)
	if sender == "" {
		v.log.WithMessageID(msg.ID).Warn("Sender address unparseable in %q, not added as attendee", msg.From)
	} else if !seen[sender] {
		attendees = append(attendees, sender)
	}

	return attendees
}

// senderAddress extracts a valid address from a From header value. The
// substring inside angle brackets wins when present; otherwise the whole
// trimmed value is tried. Returns "" when nothing validates.
func senderAddress(from string) string {
	candidate := strings.TrimSpace(from)
	if m := angleAddrPattern.FindStringSubmatch(from); m != nil {
		candidate = m[1]
	}
	if emailPattern.MatchString(candidate) {
		return candidate
	}
	return ""
}
