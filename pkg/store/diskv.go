package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/grid/pkg/aspect"
)

// ErrConflict is returned by SaveAt when another writer moved the revision
// after the snapshot was loaded.
var ErrConflict = errors.New("store: snapshot revision changed")

const (
	keyAspects    = "aspects"
	keyRevision   = "revision"
	keyUserName   = "user-name"
	keyTheme      = "theme"
	keyFocusDate  = "focus-date"
	keyBestStreak = "best-streak"
	keyUndo       = "pending-undo"

	tempDir = ".tmp"
)

// Snapshot is the whole aspect collection as read at one revision.
type Snapshot struct {
	Aspects  []aspect.Aspect
	Revision uint64
}

// Persistence defines the persistence contract for the aspect collection and
// its auxiliary scalar keys. Every write replaces the previous value whole.
type Persistence interface {
	Load(ctx context.Context) Snapshot
	Save(ctx context.Context, aspects []aspect.Aspect) error
	SaveAt(ctx context.Context, expected uint64, aspects []aspect.Aspect) (uint64, error)

	UserName() string
	SetUserName(name string) error
	Theme() string
	SetTheme(theme string) error
	LastFocusDate() string
	SetLastFocusDate(day string) error
	BestStreak() int
	SetBestStreak(n int) error

	PendingUndo() []byte
	SetPendingUndo(data []byte) error
	ClearPendingUndo() error

	BasePath() string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Option customises a diskv backed Persistence.
type Option func(*persistence)

// WithLogger routes store diagnostics to log.
func WithLogger(log *zap.Logger) Option {
	return func(p *persistence) {
		if log != nil {
			p.log = log
		}
	}
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	p := &persistence{
		d: diskv.New(diskv.Options{
			BasePath:  basePath,
			TempDir:   filepath.Join(basePath, tempDir),
			Transform: func(string) []string { return []string{} },
			// No cache: other processes write the same files.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type persistence struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

func (p *persistence) BasePath() string {
	return p.basePath
}

func (p *persistence) Load(ctx context.Context) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Aspects:  p.readAspects(),
		Revision: p.readRevision(),
	}
}

func (p *persistence) Save(ctx context.Context, aspects []aspect.Aspect) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.write(p.readRevision(), aspects)
	return err
}

func (p *persistence) SaveAt(ctx context.Context, expected uint64, aspects []aspect.Aspect) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if current := p.readRevision(); current != expected {
		p.log.Debug("stale snapshot",
			zap.Uint64("expected", expected),
			zap.Uint64("current", current))
		return current, ErrConflict
	}
	return p.write(expected, aspects)
}

func (p *persistence) write(rev uint64, aspects []aspect.Aspect) (uint64, error) {
	if aspects == nil {
		aspects = []aspect.Aspect{}
	}
	data, err := json.Marshal(aspects)
	if err != nil {
		return rev, fmt.Errorf("store: encode aspects: %w", err)
	}
	if err := p.d.Write(keyAspects, data); err != nil {
		return rev, fmt.Errorf("store: write aspects: %w", err)
	}
	next := rev + 1
	if err := p.d.Write(keyRevision, []byte(strconv.FormatUint(next, 10))); err != nil {
		return rev, fmt.Errorf("store: write revision: %w", err)
	}
	return next, nil
}

func (p *persistence) readAspects() []aspect.Aspect {
	val, err := p.d.Read(keyAspects)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.log.Warn("read aspects", zap.Error(err))
		}
		return []aspect.Aspect{}
	}
	var list []aspect.Aspect
	if err := json.Unmarshal(val, &list); err != nil {
		p.log.Warn("malformed aspects, starting empty", zap.Error(err))
		return []aspect.Aspect{}
	}
	if list == nil {
		list = []aspect.Aspect{}
	}
	return list
}

func (p *persistence) readRevision() uint64 {
	n, _ := strconv.ParseUint(p.readString(keyRevision), 10, 64)
	return n
}

func (p *persistence) readString(key string) string {
	val, err := p.d.Read(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(val))
}

func (p *persistence) writeString(key, val string) error {
	if err := p.d.Write(key, []byte(val)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) UserName() string              { return p.readString(keyUserName) }
func (p *persistence) SetUserName(name string) error { return p.writeString(keyUserName, name) }
func (p *persistence) Theme() string                 { return p.readString(keyTheme) }
func (p *persistence) SetTheme(theme string) error   { return p.writeString(keyTheme, theme) }
func (p *persistence) LastFocusDate() string         { return p.readString(keyFocusDate) }

func (p *persistence) SetLastFocusDate(day string) error {
	return p.writeString(keyFocusDate, day)
}

func (p *persistence) BestStreak() int {
	n, err := strconv.Atoi(p.readString(keyBestStreak))
	if err != nil {
		return 0
	}
	return n
}

func (p *persistence) SetBestStreak(n int) error {
	return p.writeString(keyBestStreak, strconv.Itoa(n))
}

func (p *persistence) PendingUndo() []byte {
	val, err := p.d.Read(keyUndo)
	if err != nil {
		return nil
	}
	return val
}

func (p *persistence) SetPendingUndo(data []byte) error {
	if err := p.d.Write(keyUndo, data); err != nil {
		return fmt.Errorf("store: write undo: %w", err)
	}
	return nil
}

func (p *persistence) ClearPendingUndo() error {
	if !p.d.Has(keyUndo) {
		return nil
	}
	if err := p.d.Erase(keyUndo); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: erase undo: %w", err)
	}
	return nil
}
