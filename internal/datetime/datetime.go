// Package datetime converts the date strings found in test reports into
// Unix milliseconds.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/drone/drone-ctrf/internal/diag"
)

// layouts accepted by the primary parse. Values without an offset are UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// Parse returns value as Unix milliseconds. When the whole string is not a
// recognised timestamp, the part before the first space is tried, which
// recovers strings such as "2024-01-15T10:30:00 IST".
func Parse(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if t, ok := parse(value); ok {
		return t.UnixMilli(), nil
	}
	if head, _, found := strings.Cut(value, " "); found {
		if t, ok := parse(head); ok {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognised date %q", value)
}

// Millis is Parse that never fails: an unparsable value is recorded on c at
// error level and 0 (the epoch) is returned.
func Millis(c *diag.Collector, element, field, value string) int64 {
	ms, err := Parse(value)
	if err != nil {
		c.DefaultError(element, field, "failed to parse date, using epoch: %v", err)
		return 0
	}
	return ms
}

func parse(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
