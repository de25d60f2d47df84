// Package aspect defines the aspect, day bucket and entry records that make up
// a grid journal, together with the helpers that keep them well formed.
package aspect

import (
	"sort"
	"strings"
)

// MaxStarred is the number of aspects that may be pinned at the same time.
const MaxStarred = 3

// Aspect is a named life area that entries are logged under.
type Aspect struct {
	ID      string      `json:"id" validate:"omitempty"`
	Name    string      `json:"name" validate:"notblank"`
	Created string      `json:"created"`
	Time    string      `json:"time"`
	Starred bool        `json:"starred"`
	Entries []DayBucket `json:"entries"`
}

// DayBucket groups the entries logged on a single calendar day.
type DayBucket struct {
	Date         string  `json:"date" validate:"notblank"`
	EntriesToday []Entry `json:"entriesToday"`
}

// Entry is a single free-text log line.
type Entry struct {
	ID   string `json:"id"`
	Text string `json:"text" validate:"notblank"`
	Time string `json:"time"`
}

// New returns an unstarred aspect with no entries created at the given date
// and clock strings.
func New(id, name, created, clock string) Aspect {
	return Aspect{
		ID:      id,
		Name:    name,
		Created: created,
		Time:    clock,
		Entries: []DayBucket{},
	}
}

// TotalEntries counts the entries across every day bucket.
func (a *Aspect) TotalEntries() int {
	total := 0
	for _, day := range a.Entries {
		total += len(day.EntriesToday)
	}
	return total
}

// Bucket returns the index of the bucket for date, or -1.
func (a *Aspect) Bucket(date string) int {
	return bucketFor(a.Entries, date)
}

// Clone returns a deep copy of the aspect.
func (a Aspect) Clone() Aspect {
	cp := a
	if a.Entries != nil {
		cp.Entries = make([]DayBucket, len(a.Entries))
		for i, day := range a.Entries {
			cp.Entries[i] = day.Clone()
		}
	}
	return cp
}

// Clone returns a deep copy of the bucket.
func (d DayBucket) Clone() DayBucket {
	cp := d
	if d.EntriesToday != nil {
		cp.EntriesToday = append([]Entry(nil), d.EntriesToday...)
	}
	return cp
}

// CloneAll deep copies a slice of aspects.
func CloneAll(list []Aspect) []Aspect {
	if list == nil {
		return nil
	}
	out := make([]Aspect, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

// Index returns the position of the aspect with id, or -1.
func Index(list []Aspect, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// NameKey is the comparison key used for aspect name uniqueness.
func NameKey(name string) string {
	return strings.ToLower(FormatName(name))
}

// NameTaken reports whether any aspect other than skipID already uses name,
// compared case-insensitively.
func NameTaken(list []Aspect, name, skipID string) bool {
	key := NameKey(name)
	for _, a := range list {
		if a.ID == skipID {
			continue
		}
		if NameKey(a.Name) == key {
			return true
		}
	}
	return false
}

// StarredCount returns how many aspects are pinned.
func StarredCount(list []Aspect) int {
	n := 0
	for _, a := range list {
		if a.Starred {
			n++
		}
	}
	return n
}

// SortBuckets orders day buckets newest date first. Buckets whose date cannot
// be parsed keep their relative order after the dated ones.
func SortBuckets(days []DayBucket) {
	sort.SliceStable(days, func(i, j int) bool {
		return newerDay(days[i].Date, days[j].Date)
	})
}

// SortEntries orders entries newest time first.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		left, lok := ParseClock(entries[i].Time)
		right, rok := ParseClock(entries[j].Time)
		switch {
		case lok && rok:
			return left > right
		case lok:
			return true
		default:
			return false
		}
	})
}

// Normalize folds buckets naming the same calendar day into the first of
// them, drops empty buckets and sorts buckets and entries newest first.
func (a *Aspect) Normalize() {
	kept := make([]DayBucket, 0, len(a.Entries))
	for _, day := range a.Entries {
		if len(day.EntriesToday) == 0 {
			continue
		}
		if i := bucketFor(kept, day.Date); i >= 0 {
			merged := make([]Entry, 0, len(kept[i].EntriesToday)+len(day.EntriesToday))
			merged = append(merged, kept[i].EntriesToday...)
			kept[i].EntriesToday = append(merged, day.EntriesToday...)
			continue
		}
		kept = append(kept, day)
	}
	for i := range kept {
		SortEntries(kept[i].EntriesToday)
	}
	a.Entries = kept
	SortBuckets(a.Entries)
}

func bucketFor(days []DayBucket, date string) int {
	for i := range days {
		if SameDay(days[i].Date, date) {
			return i
		}
	}
	return -1
}

func newerDay(left, right string) bool {
	lt, lok := ParseDay(left)
	rt, rok := ParseDay(right)
	switch {
	case lok && rok:
		return lt.After(rt)
	case lok:
		return true
	default:
		return false
	}
}
