package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/stats"
)

// Themes are the accepted theme preferences.
var Themes = []string{"light", "dark", "system"}

// Stats computes the stats panel and raises the persisted best streak when
// the current streak beats it.
func (s *Service) Stats(ctx context.Context) (stats.Snapshot, error) {
	list, err := s.Aspects(ctx)
	if err != nil {
		return stats.Snapshot{}, err
	}
	best := s.Persistence.BestStreak()
	snap := stats.Compute(list, s.now(), best)
	snap.UserName = s.Persistence.UserName()
	if snap.BestStreak > best {
		if err := s.Persistence.SetBestStreak(snap.BestStreak); err != nil {
			s.log().Warn("saving best streak", zap.Error(err))
		}
	}
	return snap, nil
}

// Search matches aspect names and entry texts.
func (s *Service) Search(ctx context.Context, query string) ([]stats.Match, error) {
	list, err := s.Aspects(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Search(list, query), nil
}

// DailyFocus pins the most active aspect of the trailing window. It runs at
// most once per calendar day; ran is false when today's focus already exists.
func (s *Service) DailyFocus(ctx context.Context) (f stats.Focus, ran bool, err error) {
	if err := s.check(); err != nil {
		return stats.Focus{}, false, err
	}
	now := s.now()
	today := aspect.DayKey(aspect.Day(now))
	if aspect.DayKey(s.Persistence.LastFocusDate()) == today {
		return stats.Focus{}, false, nil
	}

	var winner aspect.Aspect
	_, err = s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
		if len(list) == 0 {
			return nil, errNoChange
		}
		var next []aspect.Aspect
		next, f = stats.DailyFocus(list, now, s.focusDays())
		if i := aspect.Index(next, f.WinnerID); i >= 0 {
			winner = next[i]
		}
		return next, nil
	})
	if err != nil {
		return stats.Focus{}, false, err
	}
	if err := s.Persistence.SetLastFocusDate(aspect.Day(now)); err != nil {
		return f, true, err
	}
	if f.WinnerID != "" {
		s.notify(ctx, broadcast.AspectPinned, broadcast.Data{ID: winner.ID, Name: winner.Name})
	}
	return f, true, nil
}

// UserName returns the stored display name.
func (s *Service) UserName() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.Persistence.UserName(), nil
}

// SetUserName stores a formatted display name.
func (s *Service) SetUserName(name string) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	formatted := aspect.FormatUserName(name)
	if formatted == "" {
		return "", ErrEmptyUserName
	}
	return formatted, s.Persistence.SetUserName(formatted)
}

// Theme returns the stored theme, "system" when unset.
func (s *Service) Theme() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	if t := s.Persistence.Theme(); t != "" {
		return t, nil
	}
	return "system", nil
}

// SetTheme stores the theme preference.
func (s *Service) SetTheme(theme string) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	theme = strings.ToLower(strings.TrimSpace(theme))
	for _, t := range Themes {
		if t == theme {
			return theme, s.Persistence.SetTheme(theme)
		}
	}
	return "", ErrTheme
}
