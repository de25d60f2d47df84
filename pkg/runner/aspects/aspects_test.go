package aspects

import (
	"testing"
	"time"
)

func TestDeleteQuestion(t *testing.T) {
	tests := map[int]string{
		0: "Delete Health?",
		1: "Delete Health and its 1 entry?",
		4: "Delete Health and all 4 entries?",
	}
	for n, want := range tests {
		if got := DeleteQuestion("Health", n); got != want {
			t.Errorf("DeleteQuestion(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestUndoHint(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	if got, want := UndoHint(now.Add(8*time.Second), now), "Run grid undo within 8s to restore it."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := UndoHint(now, now); got != "" {
		t.Errorf("expired hint = %q, want empty", got)
	}
}
