package undo

import (
	"errors"

	"tableflip.dev/grid/pkg/aspect"
)

// ErrAspectGone is returned when an entry's owning aspect no longer exists.
var ErrAspectGone = errors.New("undo: owning aspect no longer exists")

// Restore applies p to list and returns the new list. list is not modified.
func Restore(list []aspect.Aspect, p Pending) ([]aspect.Aspect, error) {
	switch p.Kind {
	case KindAspect:
		if p.Aspect == nil {
			return nil, ErrEmpty
		}
		return insertAspect(list, p.Aspect.Clone(), p.Index), nil
	case KindEntry:
		if p.Entry == nil {
			return nil, ErrEmpty
		}
		return insertEntry(list, p.AspectID, p.Date, *p.Entry)
	case KindSnapshot:
		return aspect.CloneAll(p.Snapshot), nil
	default:
		return nil, ErrEmpty
	}
}

// insertAspect places a among the aspects created on the same day, newest
// creation date first, using its old index to break ties.
func insertAspect(list []aspect.Aspect, a aspect.Aspect, index int) []aspect.Aspect {
	out := make([]aspect.Aspect, 0, len(list)+1)
	created, ok := aspect.ParseDay(a.Created)

	start, end := 0, len(list)
	if ok {
		start = len(list)
		for i := range list {
			t, tok := aspect.ParseDay(list[i].Created)
			if !tok || !t.After(created) {
				start = i
				break
			}
		}
		end = start
		for end < len(list) && aspect.SameDay(list[end].Created, a.Created) {
			end++
		}
	}
	pos := index
	if pos < start {
		pos = start
	}
	if pos > end {
		pos = end
	}

	out = append(out, aspect.CloneAll(list[:pos])...)
	out = append(out, a)
	out = append(out, aspect.CloneAll(list[pos:])...)
	return out
}

func insertEntry(list []aspect.Aspect, aspectID, date string, e aspect.Entry) ([]aspect.Aspect, error) {
	out := aspect.CloneAll(list)
	idx := aspect.Index(out, aspectID)
	if idx < 0 {
		return nil, ErrAspectGone
	}
	a := &out[idx]
	b := a.Bucket(date)
	if b < 0 {
		b = bucketPosition(a.Entries, date)
		a.Entries = append(a.Entries, aspect.DayBucket{})
		copy(a.Entries[b+1:], a.Entries[b:])
		a.Entries[b] = aspect.DayBucket{Date: date, EntriesToday: []aspect.Entry{}}
	}
	a.Entries[b].EntriesToday = append(a.Entries[b].EntriesToday, e)
	aspect.SortEntries(a.Entries[b].EntriesToday)
	return out, nil
}

// bucketPosition is where a new bucket for date goes in a newest-first list.
func bucketPosition(days []aspect.DayBucket, date string) int {
	t, ok := aspect.ParseDay(date)
	if !ok {
		return 0
	}
	for i, day := range days {
		dt, dok := aspect.ParseDay(day.Date)
		if dok && dt.Before(t) {
			return i
		}
	}
	return len(days)
}
