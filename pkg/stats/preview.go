package stats

import (
	"time"
	"unicode/utf8"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/timeutil"
)

const (
	previewWidth = 60
	// NoEntries is shown for aspects without any entries.
	NoEntries = "No entries yet. Start logging!"
)

// Preview is the most recent entry of an aspect, ready for display.
type Preview struct {
	Text string `json:"text" yaml:"text"`
	When string `json:"when,omitempty" yaml:"when,omitempty"`
}

// LastEntry previews the newest entry of a.
func LastEntry(a aspect.Aspect, now time.Time) Preview {
	if len(a.Entries) == 0 || len(a.Entries[0].EntriesToday) == 0 {
		return Preview{Text: NoEntries}
	}
	day := a.Entries[0]
	e := day.EntriesToday[0]
	return Preview{
		Text: Shorten(e.Text, previewWidth),
		When: When(day.Date, e.Time, now),
	}
}

// Shorten cuts s to width cells and appends an ellipsis when it was longer.
func Shorten(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return truncate.String(s, uint(width)) + "..."
}

// DayHeader renders a stored date as Today, Yesterday or Jan 2, 2006.
func DayHeader(date string, now time.Time) string {
	t, ok := aspect.ParseDay(date)
	if !ok {
		return date
	}
	today := timeutil.StartOfDay(now)
	switch {
	case t.Equal(today):
		return "Today"
	case t.Equal(timeutil.AddDays(today, -1)):
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// When combines a day header with a 24 hour clock.
func When(date, clock string, now time.Time) string {
	header := DayHeader(date, now)
	d, ok := aspect.ParseClock(clock)
	if !ok {
		if clock == "" {
			return header
		}
		return header + " " + clock
	}
	return header + " " + time.Time{}.Add(d).Format("15:04")
}
