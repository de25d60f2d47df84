package schedule

import (
	"context"
	"testing"
	"time"
)

func TestFakeRunsDueTasksInOrder(t *testing.T) {
	f := NewFake(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	var order []string
	f.After(2*time.Second, func() { order = append(order, "second") })
	f.After(time.Second, func() { order = append(order, "first") })
	cancel := f.After(time.Second, func() { order = append(order, "cancelled") })
	if !cancel() {
		t.Fatal("expected cancel to stop a pending task")
	}

	f.Advance(1500 * time.Millisecond)
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("unexpected order after 1.5s: %v", order)
	}
	f.Advance(time.Second)
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("unexpected order after 2.5s: %v", order)
	}
	if f.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", f.Pending())
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	f := NewFake(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := 0
	Every(ctx, f, time.Minute, func() { runs++ })
	f.Advance(3*time.Minute + time.Second)
	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
}
