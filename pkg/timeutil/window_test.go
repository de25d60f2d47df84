package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	dur, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 7*24*time.Hour || label != "1w" {
		t.Fatalf("expected 1w, got %v (%s)", dur, label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	dur, label, err := ParseWindow("1w2d6h30m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24+2*24+6)*time.Hour + 30*time.Minute
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1w2d6h30m" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowSeconds(t *testing.T) {
	dur, label, err := ParseWindow(" 8 s ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 8*time.Second || label != "8s" {
		t.Fatalf("expected 8s, got %v (%s)", dur, label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "5y", "0s"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 3, 9, 23, 0, 0, 0, time.Local)
	b := time.Date(2024, 3, 12, 1, 0, 0, 0, time.Local)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("expected -3 days, got %d", got)
	}
	if got := WindowDays(36 * time.Hour); got != 1 {
		t.Fatalf("expected 1 day window, got %d", got)
	}
}
