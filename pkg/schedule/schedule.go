// Package schedule runs deferred and periodic tasks behind an interface so
// callers can be tested without real timers.
package schedule

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Cancel stops a scheduled task. It reports whether the task was stopped
// before it ran.
type Cancel func() bool

// Scheduler defers work.
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Cancel
}

// Real schedules with the runtime timers.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) After(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// Every runs fn every interval until ctx is done. fn is not run immediately.
func Every(ctx context.Context, s Scheduler, interval time.Duration, fn func()) {
	var mu sync.Mutex
	var cancel Cancel
	var tick func()
	tick = func() {
		if ctx.Err() != nil {
			return
		}
		fn()
		mu.Lock()
		cancel = s.After(interval, tick)
		mu.Unlock()
	}
	mu.Lock()
	cancel = s.After(interval, tick)
	mu.Unlock()
	go func() {
		<-ctx.Done()
		mu.Lock()
		defer mu.Unlock()
		cancel()
	}()
}

// Fake is a manually advanced Scheduler.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*fakeTask
}

type fakeTask struct {
	at   time.Time
	seq  int
	fn   func()
	done bool
}

// NewFake returns a Fake whose clock starts at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration, fn func()) Cancel {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	task := &fakeTask{at: f.now.Add(d), seq: f.seq, fn: fn}
	f.tasks = append(f.tasks, task)
	return func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if task.done {
			return false
		}
		task.done = true
		return true
	}
}

// Advance moves the clock forward and runs every task that came due, in due
// order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()
	for {
		f.mu.Lock()
		sort.SliceStable(f.tasks, func(i, j int) bool {
			if f.tasks[i].at.Equal(f.tasks[j].at) {
				return f.tasks[i].seq < f.tasks[j].seq
			}
			return f.tasks[i].at.Before(f.tasks[j].at)
		})
		var next *fakeTask
		for _, t := range f.tasks {
			if !t.done && !t.at.After(target) {
				next = t
				break
			}
		}
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		next.done = true
		f.now = next.at
		f.mu.Unlock()
		next.fn()
	}
}

// Pending counts tasks that have not run or been cancelled.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tasks {
		if !t.done {
			n++
		}
	}
	return n
}
