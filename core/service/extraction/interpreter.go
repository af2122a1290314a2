// Package extraction turns raw model replies about an email into validated,
// timezone-normalized meeting records.
package extraction

import (
	"strings"

	"github.com/goccy/go-json"

	"inboxcal/core/domain"
)

const malformedReason = "malformed output"

// ParseVerdict extracts the first balanced-looking JSON object from a raw
// model reply and decodes it. The match is greedy: first '{' to last '}',
// which tolerates prose or markdown fences around the object. Any input
// that cannot be decoded degrades to a rejection verdict; this function
// never fails.
func ParseVerdict(raw string) *domain.Verdict {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return &domain.Verdict{Explanation: malformedReason}
	}

	var v domain.Verdict
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return &domain.Verdict{Explanation: malformedReason}
	}
	return &v
}
