// Package undo keeps the single most recent deletion so it can be restored
// within a short window.
package undo

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/schedule"
)

// DefaultWindow is how long a deletion stays restorable.
const DefaultWindow = 8 * time.Second

var (
	// ErrEmpty means nothing is waiting to be restored.
	ErrEmpty = errors.New("undo: nothing to undo")
	// ErrExpired means the pending deletion outlived its window.
	ErrExpired = errors.New("undo: window expired")
)

// Kind tags what a pending slot holds.
type Kind string

const (
	KindAspect   Kind = "aspect"
	KindEntry    Kind = "entry"
	KindSnapshot Kind = "snapshot"
)

// Pending is the remembered deletion. For KindAspect, Aspect and Index are
// set; for KindEntry, AspectID, Date and Entry; for KindSnapshot, Snapshot
// and UserName hold the state a replace-import overwrote.
type Pending struct {
	Kind     Kind            `json:"kind"`
	Aspect   *aspect.Aspect  `json:"aspect,omitempty"`
	Index    int             `json:"index"`
	AspectID string          `json:"aspectId,omitempty"`
	Date     string          `json:"date,omitempty"`
	Entry    *aspect.Entry   `json:"entry,omitempty"`
	Snapshot []aspect.Aspect `json:"snapshot,omitempty"`
	UserName string          `json:"userName,omitempty"`
	Deadline time.Time       `json:"deadline"`
}

// Slot mirrors the pending deletion outside the process so a later command
// can restore it.
type Slot interface {
	PendingUndo() []byte
	SetPendingUndo(data []byte) error
	ClearPendingUndo() error
}

// Buffer is a single-slot undo memory. A new Push overwrites any pending
// deletion without restoring it.
type Buffer struct {
	mu      sync.Mutex
	window  time.Duration
	sched   schedule.Scheduler
	slot    Slot
	log     *zap.Logger
	pending *Pending
	gen     uint64
}

// New builds a Buffer. slot may be nil for a purely in-memory buffer.
func New(window time.Duration, sched schedule.Scheduler, slot Slot, log *zap.Logger) *Buffer {
	if window <= 0 {
		window = DefaultWindow
	}
	if sched == nil {
		sched = schedule.Real{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Buffer{window: window, sched: sched, slot: slot, log: log}
}

// Window returns the restore window.
func (b *Buffer) Window() time.Duration {
	return b.window
}

// Push remembers p and schedules its expiry. It returns the deadline.
func (b *Buffer) Push(p Pending) time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	p.Deadline = b.sched.Now().Add(b.window)
	b.gen++
	gen := b.gen
	b.pending = &p
	b.persistLocked()

	// The deferred clear is never cancelled; it only clears the slot it was
	// scheduled for.
	b.sched.After(b.window, func() { b.expire(gen) })
	return p.Deadline
}

// Peek returns the pending deletion if it is still restorable.
func (b *Buffer) Peek() (Pending, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.currentLocked()
	if err != nil {
		return Pending{}, err
	}
	return *p, nil
}

// Take returns the pending deletion and clears the slot.
func (b *Buffer) Take() (Pending, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.currentLocked()
	if err != nil {
		return Pending{}, err
	}
	b.clearLocked()
	return *p, nil
}

// Clear drops any pending deletion.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *Buffer) expire(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen || b.pending == nil {
		return
	}
	b.log.Debug("undo window expired", zap.String("kind", string(b.pending.Kind)))
	if stored := b.loadLocked(); stored != nil && !stored.Deadline.Equal(b.pending.Deadline) {
		// Another process owns the mirrored slot now.
		b.pending = nil
		b.gen++
		return
	}
	b.clearLocked()
}

func (b *Buffer) currentLocked() (*Pending, error) {
	if b.pending == nil {
		b.pending = b.loadLocked()
	}
	if b.pending == nil {
		return nil, ErrEmpty
	}
	if b.sched.Now().After(b.pending.Deadline) {
		b.clearLocked()
		return nil, ErrExpired
	}
	return b.pending, nil
}

func (b *Buffer) clearLocked() {
	b.pending = nil
	b.gen++
	if b.slot == nil {
		return
	}
	if err := b.slot.ClearPendingUndo(); err != nil {
		b.log.Warn("clear undo slot", zap.Error(err))
	}
}

func (b *Buffer) persistLocked() {
	if b.slot == nil || b.pending == nil {
		return
	}
	data, err := json.Marshal(b.pending)
	if err != nil {
		b.log.Warn("encode undo slot", zap.Error(err))
		return
	}
	if err := b.slot.SetPendingUndo(data); err != nil {
		b.log.Warn("write undo slot", zap.Error(err))
	}
}

func (b *Buffer) loadLocked() *Pending {
	if b.slot == nil {
		return nil
	}
	data := b.slot.PendingUndo()
	if len(data) == 0 {
		return nil
	}
	var p Pending
	if err := json.Unmarshal(data, &p); err != nil {
		b.log.Warn("malformed undo slot", zap.Error(err))
		return nil
	}
	return &p
}
