package app

import (
	"context"
	"errors"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/undo"
)

// Restored describes what Undo put back.
type Restored struct {
	Kind     undo.Kind
	Aspect   aspect.Aspect
	Entry    aspect.Entry
	AspectID string
	// Aspects is the number of aspects a restored snapshot holds.
	Aspects int
}

// Undo restores the pending deletion if its window is still open. The slot
// is only consumed once the restored collection is written.
func (s *Service) Undo(ctx context.Context) (Restored, error) {
	if err := s.check(); err != nil {
		return Restored{}, err
	}
	buf := s.undoBuffer()
	p, err := buf.Peek()
	if err != nil {
		return Restored{}, err
	}

	r := Restored{Kind: p.Kind, AspectID: p.AspectID}
	_, err = s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		if p.Kind == undo.KindAspect && p.Aspect != nil {
			if aspect.Index(list, p.Aspect.ID) >= 0 {
				return nil, undo.ErrEmpty
			}
			if aspect.NameTaken(list, p.Aspect.Name, p.Aspect.ID) {
				return nil, ErrDuplicateName
			}
		}
		next, err := undo.Restore(list, p)
		if err != nil {
			return nil, err
		}
		if p.Kind == undo.KindAspect {
			i := aspect.Index(next, p.Aspect.ID)
			if next[i].Starred && aspect.StarredCount(next) > aspect.MaxStarred {
				next[i].Starred = false
			}
			r.Aspect = next[i]
		}
		if next == nil {
			next = []aspect.Aspect{}
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, undo.ErrEmpty) {
			buf.Clear()
		}
		return Restored{}, err
	}
	if _, err := buf.Take(); err != nil {
		s.log().Debug("undo slot already consumed")
	}

	switch p.Kind {
	case undo.KindAspect:
		s.notify(ctx, broadcast.AspectAdded, broadcast.Data{ID: r.Aspect.ID, Name: r.Aspect.Name})
	case undo.KindEntry:
		r.Entry = *p.Entry
		s.notify(ctx, broadcast.EntryAdded, broadcast.Data{ID: p.Entry.ID, AspectID: p.AspectID})
	case undo.KindSnapshot:
		r.Aspects = len(p.Snapshot)
		if err := s.Persistence.SetUserName(p.UserName); err != nil {
			return r, err
		}
		s.notify(ctx, broadcast.AspectUpdated, broadcast.Data{})
	}
	return r, nil
}
