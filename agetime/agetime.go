// Package agetime turns the two time signals a listing row carries, a
// machine-readable absolute timestamp and a human relative age such as
// "3 hours ago", into epoch milliseconds.
package agetime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fixed unit lengths. Months and years are approximations, not calendar
// arithmetic.
const (
	Second = int64(1000)
	Minute = 60 * Second
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Week   = 7 * Day
	Month  = 30 * Day
	Year   = 365 * Day
)

var unitMillis = map[string]int64{
	"second": Second,
	"minute": Minute,
	"hour":   Hour,
	"day":    Day,
	"week":   Week,
	"month":  Month,
	"year":   Year,
}

// relativePattern matches "<n> <unit> ago" where unit may carry a plural s.
// The unit is captured loosely so an unknown word leaves the text unresolved
// rather than matching a shorter prefix.
var relativePattern = regexp.MustCompile(`(?i)(\d+)\s+([a-z]+?)s?\s+ago`)

// absoluteLayouts are tried in order against the first field of the
// absolute string. Layouts without a zone are read as UTC.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Resolve returns the epoch milliseconds described by absolute or, when that
// is missing or malformed, by relative, measured back from now. ok is false
// when neither signal resolves.
func Resolve(absolute, relative string, now time.Time) (int64, bool) {
	if ms, ok := ParseAbsolute(absolute); ok {
		return ms, true
	}
	return ParseRelative(relative, now)
}

// ParseAbsolute parses an absolute timestamp. Only the first
// whitespace-separated field is considered, which covers attributes such as
// "2024-01-01T00:00:00 1704067200". A bare integer is read as epoch seconds
// and rejected when its milliseconds do not fit in an int64.
func ParseAbsolute(absolute string) (int64, bool) {
	fields := strings.Fields(absolute)
	if len(fields) == 0 {
		return 0, false
	}
	value := fields[0]

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), true
		}
	}

	secs, err := strconv.ParseInt(value, 10, 64)
	if err == nil && secs > 0 && secs <= math.MaxInt64/Second {
		return secs * Second, true
	}

	return 0, false
}

// ParseRelative parses "yesterday" or "<n> <unit> ago" relative to now. An
// age too large to express in milliseconds is unresolved.
func ParseRelative(relative string, now time.Time) (int64, bool) {
	text := strings.ToLower(strings.TrimSpace(relative))
	if text == "" {
		return 0, false
	}

	// Checked before the generic pattern.
	if strings.Contains(text, "yesterday") {
		return now.UnixMilli() - Day, true
	}

	match := relativePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}

	unit, ok := unitMillis[match[2]]
	if !ok || n > math.MaxInt64/unit {
		return 0, false
	}

	return now.UnixMilli() - n*unit, true
}

// ToSeconds converts epoch milliseconds to epoch seconds, rounding toward
// negative infinity.
func ToSeconds(ms int64) int64 {
	secs := ms / 1000
	if ms%1000 < 0 {
		secs--
	}
	return secs
}
