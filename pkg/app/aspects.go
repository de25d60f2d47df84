package app

import (
	"context"
	"time"
	"unicode/utf8"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/undo"
)

// Aspects returns the current collection.
func (s *Service) Aspects(ctx context.Context) ([]aspect.Aspect, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.Persistence.Load(ctx).Aspects, nil
}

// Aspect returns the aspect with id.
func (s *Service) Aspect(ctx context.Context, id string) (aspect.Aspect, error) {
	list, err := s.Aspects(ctx)
	if err != nil {
		return aspect.Aspect{}, err
	}
	i := aspect.Index(list, id)
	if i < 0 {
		return aspect.Aspect{}, ErrNotFound
	}
	return list[i], nil
}

// AddAspect creates an unpinned aspect at the front of the collection.
func (s *Service) AddAspect(ctx context.Context, name string) (aspect.Aspect, error) {
	formatted := aspect.FormatName(name)
	if formatted == "" {
		return aspect.Aspect{}, ErrEmptyName
	}
	var created aspect.Aspect
	_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		if aspect.NameTaken(list, formatted, "") {
			return nil, ErrDuplicateName
		}
		now := s.now()
		created = aspect.New(s.ids().NewID(aspect.AspectPrefix), formatted, aspect.Day(now), aspect.Clock(now))
		return append([]aspect.Aspect{created}, list...), nil
	})
	if err != nil {
		return aspect.Aspect{}, err
	}
	s.notify(ctx, broadcast.AspectAdded, broadcast.Data{ID: created.ID, Name: created.Name})
	return created, nil
}

// RenameAspect gives the aspect a new formatted name. A change of letter case
// alone is allowed.
func (s *Service) RenameAspect(ctx context.Context, id, name string) (aspect.Aspect, error) {
	formatted := aspect.FormatName(name)
	if formatted == "" {
		return aspect.Aspect{}, ErrEmptyName
	}
	if utf8.RuneCountInString(formatted) < 2 {
		return aspect.Aspect{}, ErrNameTooShort
	}
	var renamed aspect.Aspect
	_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		i := aspect.Index(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if list[i].Name == formatted {
			return nil, ErrUnchanged
		}
		if aspect.NameTaken(list, formatted, id) {
			return nil, ErrDuplicateName
		}
		list[i].Name = formatted
		renamed = list[i]
		return list, nil
	})
	if err != nil {
		return aspect.Aspect{}, err
	}
	s.notify(ctx, broadcast.AspectUpdated, broadcast.Data{ID: renamed.ID, Name: renamed.Name})
	return renamed, nil
}

// DeleteAspect removes the aspect and keeps it restorable until the returned
// deadline.
func (s *Service) DeleteAspect(ctx context.Context, id string) (aspect.Aspect, time.Time, error) {
	var (
		removed aspect.Aspect
		index   int
	)
	_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		i := aspect.Index(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		removed, index = list[i], i
		return append(list[:i], list[i+1:]...), nil
	})
	if err != nil {
		return aspect.Aspect{}, time.Time{}, err
	}
	keep := removed.Clone()
	deadline := s.undoBuffer().Push(undo.Pending{Kind: undo.KindAspect, Aspect: &keep, Index: index})
	s.notify(ctx, broadcast.AspectDeleted, broadcast.Data{ID: removed.ID, Name: removed.Name})
	return removed, deadline, nil
}

// TogglePin flips the pin on an aspect. Pinning beyond the limit fails with
// ErrPinLimit.
func (s *Service) TogglePin(ctx context.Context, id string) (aspect.Aspect, error) {
	var toggled aspect.Aspect
	_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		i := aspect.Index(list, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !list[i].Starred && aspect.StarredCount(list) >= aspect.MaxStarred {
			return nil, ErrPinLimit
		}
		list[i].Starred = !list[i].Starred
		toggled = list[i]
		return list, nil
	})
	if err != nil {
		return aspect.Aspect{}, err
	}
	s.notify(ctx, broadcast.AspectPinned, broadcast.Data{ID: toggled.ID, Name: toggled.Name})
	return toggled, nil
}
