package store

import (
	"context"
	"sync"

	"tableflip.dev/grid/pkg/aspect"
)

// Memory is an in-process Persistence used by tests and dry runs. Values are
// deep copied on the way in and out, mirroring the serialisation boundary of
// the disk store.
type Memory struct {
	mu         sync.Mutex
	aspects    []aspect.Aspect
	revision   uint64
	userName   string
	theme      string
	focusDate  string
	bestStreak int
	undo       []byte
}

var _ Persistence = (*Memory)(nil)

// NewMemory returns a Memory seeded with aspects.
func NewMemory(aspects ...aspect.Aspect) *Memory {
	return &Memory{aspects: aspect.CloneAll(aspects)}
}

func (m *Memory) Load(context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := aspect.CloneAll(m.aspects)
	if list == nil {
		list = []aspect.Aspect{}
	}
	return Snapshot{Aspects: list, Revision: m.revision}
}

func (m *Memory) Save(_ context.Context, aspects []aspect.Aspect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aspects = aspect.CloneAll(aspects)
	m.revision++
	return nil
}

func (m *Memory) SaveAt(_ context.Context, expected uint64, aspects []aspect.Aspect) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revision != expected {
		return m.revision, ErrConflict
	}
	m.aspects = aspect.CloneAll(aspects)
	m.revision++
	return m.revision, nil
}

func (m *Memory) UserName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userName
}

func (m *Memory) SetUserName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userName = name
	return nil
}

func (m *Memory) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func (m *Memory) SetTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return nil
}

func (m *Memory) LastFocusDate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focusDate
}

func (m *Memory) SetLastFocusDate(day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focusDate = day
	return nil
}

func (m *Memory) BestStreak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bestStreak
}

func (m *Memory) SetBestStreak(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bestStreak = n
	return nil
}

func (m *Memory) PendingUndo() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.undo...)
}

func (m *Memory) SetPendingUndo(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = append([]byte(nil), data...)
	return nil
}

func (m *Memory) ClearPendingUndo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	return nil
}

func (m *Memory) BasePath() string { return "" }

func (m *Memory) Watch(context.Context) (<-chan Event, error) {
	return nil, nil
}
