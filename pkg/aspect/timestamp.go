package aspect

import (
	"strings"
	"time"
)

const (
	// LayoutDay is the layout dates are written with.
	LayoutDay = "Mon Jan 02 2006"
	// LayoutClock is the layout wall-clock times are written with.
	LayoutClock = "3:04:05 PM"
	// LayoutISO is the normalised calendar day key.
	LayoutISO = "2006-01-02"
)

var dayLayouts = []string{
	LayoutDay,
	"Mon Jan 2 2006",
	LayoutISO,
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
	time.RFC3339Nano,
}

var clockLayouts = []string{
	LayoutClock,
	"3:04 PM",
	"15:04:05",
	"15:04",
}

// Day formats t as a stored date string.
func Day(t time.Time) string {
	return t.Format(LayoutDay)
}

// Clock formats t as a stored wall-clock string.
func Clock(t time.Time) string {
	return t.Format(LayoutClock)
}

// ParseDay parses a stored date string in any of the known layouts. The
// result is midnight of that day in the local time zone.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.Local), true
		}
	}
	return time.Time{}, false
}

// DayKey normalises a stored date string to YYYY-MM-DD. Unparseable input
// returns the empty string.
func DayKey(s string) string {
	t, ok := ParseDay(s)
	if !ok {
		return ""
	}
	return t.Format(LayoutISO)
}

// SameDay reports whether two stored dates name the same calendar day. Dates
// that cannot be parsed only match when the strings are identical.
func SameDay(left, right string) bool {
	if left == right {
		return true
	}
	lk, rk := DayKey(left), DayKey(right)
	return lk != "" && lk == rk
}

// ParseClock parses a stored wall-clock string and returns the offset since
// midnight.
func ParseClock(s string) (time.Duration, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}
