// Package app is the composition root shared by every grid command. Service
// applies mutations to the aspect collection, remembers deletions for undo
// and notifies sibling processes.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/schedule"
	"tableflip.dev/grid/pkg/stats"
	"tableflip.dev/grid/pkg/store"
	"tableflip.dev/grid/pkg/undo"
)

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNotFound      = errors.New("app: aspect not found")
	ErrEntryNotFound = errors.New("app: entry not found")
	ErrEmptyName     = errors.New("app: aspect name is empty")
	ErrNameTooShort  = errors.New("app: aspect name must be at least 2 characters")
	ErrDuplicateName = errors.New("app: an aspect with that name already exists")
	ErrUnchanged     = errors.New("app: new name matches the current name")
	ErrPinLimit      = fmt.Errorf("app: at most %d aspects can be pinned", aspect.MaxStarred)
	ErrEmptyText     = errors.New("app: entry text is empty")
	ErrEmptyUserName = errors.New("app: user name is empty")
	ErrTheme         = errors.New("app: theme must be light, dark or system")
)

// maxAttempts bounds how often a mutation is re-applied after losing a race
// with another process.
const maxAttempts = 3

// errNoChange lets a transform skip the write.
var errNoChange = errors.New("app: no change")

// Service provides the grid operations over a Persistence. Zero values of the
// optional fields fall back to working defaults.
type Service struct {
	Persistence store.Persistence
	// Channel notifies other processes; nil disables sync.
	Channel broadcast.Channel
	// Buffer remembers the last deletion; built on first use when nil.
	Buffer *undo.Buffer
	// IDs generates aspect and entry ids.
	IDs aspect.IDSource
	// Clock supplies the current time and undo expiry.
	Clock schedule.Scheduler
	// FocusDays is the daily focus window, 7 when zero.
	FocusDays int
	Log       *zap.Logger

	undoOnce sync.Once
}

func (s *Service) check() error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Now is the current time on the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) ids() aspect.IDSource {
	if s.IDs == nil {
		return aspect.RandomIDs{Now: s.now}
	}
	return s.IDs
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) focusDays() int {
	if s.FocusDays <= 0 {
		return stats.FocusDays
	}
	return s.FocusDays
}

func (s *Service) undoBuffer() *undo.Buffer {
	s.undoOnce.Do(func() {
		if s.Buffer == nil {
			s.Buffer = undo.New(undo.DefaultWindow, s.Clock, s.Persistence, s.log())
		}
	})
	return s.Buffer
}

// Origin is this process's channel origin, empty without a channel.
func (s *Service) Origin() string {
	if s.Channel == nil {
		return ""
	}
	return s.Channel.Origin()
}

// mutate loads the collection, applies fn and writes the result at the loaded
// revision. When another process wrote in between, fn runs again on the
// fresh collection. fn receives a private copy and may modify it.
func (s *Service) mutate(ctx context.Context, fn func([]aspect.Aspect) ([]aspect.Aspect, error)) ([]aspect.Aspect, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		snap := s.Persistence.Load(ctx)
		next, err := fn(aspect.CloneAll(snap.Aspects))
		if errors.Is(err, errNoChange) {
			return snap.Aspects, nil
		}
		if err != nil {
			return nil, err
		}
		if _, err := s.Persistence.SaveAt(ctx, snap.Revision, next); err != nil {
			if errors.Is(err, store.ErrConflict) {
				s.log().Debug("store changed underneath, retrying", zap.Int("attempt", attempt))
				continue
			}
			return nil, err
		}
		return next, nil
	}
	return nil, fmt.Errorf("app: giving up after %d attempts: %w", maxAttempts, store.ErrConflict)
}

// notify broadcasts a change. Failures are logged and never fail the caller.
func (s *Service) notify(ctx context.Context, t broadcast.EventType, data broadcast.Data) {
	if s.Channel == nil {
		return
	}
	if err := s.Channel.Broadcast(ctx, broadcast.Message{Type: t, Data: data}); err != nil {
		s.log().Warn("broadcast failed", zap.String("type", string(t)), zap.Error(err))
	}
}

// Watch subscribes to store change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.Persistence.Watch(ctx)
}
