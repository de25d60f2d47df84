// Package stats derives streaks, the daily focus pin, search results and
// display previews from an aspect collection. Nothing here writes to a store.
package stats

import (
	"sort"
	"time"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/timeutil"
)

// ActiveDays returns the distinct YYYY-MM-DD days with at least one entry
// across every aspect.
func ActiveDays(list []aspect.Aspect) map[string]struct{} {
	days := make(map[string]struct{})
	for _, a := range list {
		for _, day := range a.Entries {
			if len(day.EntriesToday) == 0 {
				continue
			}
			if key := aspect.DayKey(day.Date); key != "" {
				days[key] = struct{}{}
			}
		}
	}
	return days
}

// Streak counts consecutive active days ending today. It is zero when today
// has no entries.
func Streak(list []aspect.Aspect, now time.Time) int {
	days := ActiveDays(list)
	n := 0
	for d := timeutil.StartOfDay(now); ; d = timeutil.AddDays(d, -1) {
		if _, ok := days[d.Format(aspect.LayoutISO)]; !ok {
			return n
		}
		n++
	}
}

// BestStreak returns the high-water mark after observing current.
func BestStreak(current, best int) int {
	if current > best {
		return current
	}
	return best
}

// EntriesOn counts entries of a logged on the day of t.
func EntriesOn(a aspect.Aspect, t time.Time) int {
	key := timeutil.StartOfDay(t).Format(aspect.LayoutISO)
	n := 0
	for _, day := range a.Entries {
		if aspect.DayKey(day.Date) == key {
			n += len(day.EntriesToday)
		}
	}
	return n
}

// EntriesWithin counts entries of a in the trailing window of days ending on
// the day of now, today included.
func EntriesWithin(a aspect.Aspect, now time.Time, days int) int {
	if days <= 0 {
		return 0
	}
	today := timeutil.StartOfDay(now)
	first := timeutil.AddDays(today, -(days - 1))
	n := 0
	for _, day := range a.Entries {
		t, ok := aspect.ParseDay(day.Date)
		if !ok || t.Before(first) || t.After(today) {
			continue
		}
		n += len(day.EntriesToday)
	}
	return n
}

// Snapshot is the stats panel.
type Snapshot struct {
	Greeting     string   `json:"greeting" yaml:"greeting"`
	UserName     string   `json:"userName,omitempty" yaml:"userName,omitempty"`
	Aspects      int      `json:"aspects" yaml:"aspects"`
	TotalEntries int      `json:"totalEntries" yaml:"totalEntries"`
	EntriesToday int      `json:"entriesToday" yaml:"entriesToday"`
	ActiveDays   int      `json:"activeDays" yaml:"activeDays"`
	Streak       int      `json:"streak" yaml:"streak"`
	BestStreak   int      `json:"bestStreak" yaml:"bestStreak"`
	MostActive   string   `json:"mostActive,omitempty" yaml:"mostActive,omitempty"`
	Starred      []string `json:"starred" yaml:"starred"`
}

// Compute builds the stats panel. best is the persisted high-water mark; the
// returned snapshot already folds the current streak into it.
func Compute(list []aspect.Aspect, now time.Time, best int) Snapshot {
	s := Snapshot{
		Greeting: Greeting(now),
		Aspects:  len(list),
		Starred:  []string{},
	}
	most := 0
	for i := range list {
		a := &list[i]
		total := a.TotalEntries()
		s.TotalEntries += total
		s.EntriesToday += EntriesOn(*a, now)
		if total > most {
			most = total
			s.MostActive = a.Name
		}
		if a.Starred {
			s.Starred = append(s.Starred, a.Name)
		}
	}
	s.ActiveDays = len(ActiveDays(list))
	s.Streak = Streak(list, now)
	s.BestStreak = BestStreak(s.Streak, best)
	return s
}

// Greeting returns the time-of-day salutation.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// SortedDays returns the active days newest first.
func SortedDays(list []aspect.Aspect) []string {
	days := ActiveDays(list)
	out := make([]string, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
