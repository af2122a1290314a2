package extraction

import (
	"fmt"
	"strings"
	"time"
)

// Accepted timestamp shapes, tried in order. Layouts with an offset suffix
// also match a trailing "Z".
var (
	offsetLayouts = []string{
		time.RFC3339,             // 2025-09-19T12:00:00+03:00 or ...Z
		"2006-01-02T15:04Z07:00", // seconds omitted
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
)

// Normalizer converts possibly-ambiguous timestamp strings into
// unambiguous, offset-bearing timestamps in a single reference timezone.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a Normalizer for an IANA zone name.
func NewNormalizer(zone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid reference timezone %q: %w", zone, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location returns the reference timezone location.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Parse interprets a timestamp string. Strings carrying an explicit offset
// or a Zulu marker are parsed as absolute instants; naive strings are read
// as wall-clock time in the reference timezone, never UTC and never the
// host zone.
func (n *Normalizer) Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", value)
}

// Normalize parses a timestamp string and re-expresses it in the reference
// timezone as RFC3339 with an explicit offset. Absolute inputs keep their
// instant; naive inputs keep their clock reading.
func (n *Normalizer) Normalize(value string) (string, error) {
	t, err := n.Parse(value)
	if err != nil {
		return "", err
	}
	return t.In(n.loc).Format(time.RFC3339), nil
}
