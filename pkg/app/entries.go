package app

import (
	"context"
	"strings"
	"time"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/undo"
)

// AddEntry logs text under the aspect for today.
func (s *Service) AddEntry(ctx context.Context, aspectID, text string) (aspect.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return aspect.Entry{}, ErrEmptyText
	}
	var added aspect.Entry
	_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		i := aspect.Index(list, aspectID)
		if i < 0 {
			return nil, ErrNotFound
		}
		now := s.now()
		a := &list[i]
		today := aspect.Day(now)
		b := a.Bucket(today)
		if b < 0 {
			a.Entries = append([]aspect.DayBucket{{Date: today, EntriesToday: []aspect.Entry{}}}, a.Entries...)
			b = 0
		}
		added = aspect.Entry{
			ID:   s.ids().NewID(aspect.EntryPrefix),
			Text: text,
			Time: aspect.Clock(now),
		}
		a.Entries[b].EntriesToday = append([]aspect.Entry{added}, a.Entries[b].EntriesToday...)
		return list, nil
	})
	if err != nil {
		return aspect.Entry{}, err
	}
	s.notify(ctx, broadcast.EntryAdded, broadcast.Data{ID: added.ID, AspectID: aspectID})
	return added, nil
}

// DeleteEntry removes one entry, dropping its day bucket when it empties. The
// entry stays restorable until the returned deadline.
func (s *Service) DeleteEntry(ctx context.Context, aspectID, date, entryID string) (aspect.Entry, time.Time, error) {
	var (
		removed aspect.Entry
		day     string
	)
	_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		i := aspect.Index(list, aspectID)
		if i < 0 {
			return nil, ErrNotFound
		}
		a := &list[i]
		b, e := findEntry(a, date, entryID)
		if e < 0 {
			return nil, ErrEntryNotFound
		}
		bucket := &a.Entries[b]
		removed, day = bucket.EntriesToday[e], bucket.Date
		bucket.EntriesToday = append(bucket.EntriesToday[:e], bucket.EntriesToday[e+1:]...)
		if len(bucket.EntriesToday) == 0 {
			a.Entries = append(a.Entries[:b], a.Entries[b+1:]...)
		}
		return list, nil
	})
	if err != nil {
		return aspect.Entry{}, time.Time{}, err
	}
	keep := removed
	deadline := s.undoBuffer().Push(undo.Pending{Kind: undo.KindEntry, AspectID: aspectID, Date: day, Entry: &keep})
	s.notify(ctx, broadcast.EntryDeleted, broadcast.Data{ID: removed.ID, AspectID: aspectID})
	return removed, deadline, nil
}

// findEntry locates an entry by id. An empty date searches every bucket.
func findEntry(a *aspect.Aspect, date, entryID string) (bucket, entry int) {
	for b, day := range a.Entries {
		if date != "" && !aspect.SameDay(day.Date, date) {
			continue
		}
		for e, item := range day.EntriesToday {
			if item.ID == entryID {
				return b, e
			}
		}
	}
	return -1, -1
}
