package core

import (
	"strings"
	"time"
	"unicode"
)

// NormalizePhone strips every non-digit rune from raw. The result is a
// best-effort dedup key: callers must treat an empty result as "no usable
// match key" and skip phone-based lookups.
func NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EventTime converts an epoch-seconds event timestamp to the stored UTC
// representation, truncated to whole seconds. Zero or negative input yields
// nil. The conversion is lossy one-way but deterministic and monotonic.
func EventTime(epochSeconds int64) *time.Time {
	if epochSeconds <= 0 {
		return nil
	}
	t := time.Unix(epochSeconds, 0).UTC().Truncate(time.Second)
	return &t
}
