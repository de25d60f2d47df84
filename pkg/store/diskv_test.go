package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/grid/pkg/aspect"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	snap := p.Load(ctx)
	if len(snap.Aspects) != 0 || snap.Revision != 0 {
		t.Fatalf("expected empty first-run snapshot, got %+v", snap)
	}

	a := aspect.New("aspect_1", "Health", "Mon Jan 01 2024", "9:00:00 AM")
	a.Entries = []aspect.DayBucket{{Date: "Mon Jan 01 2024", EntriesToday: []aspect.Entry{{ID: "entry_1", Text: "Ran", Time: "9:01:00 AM"}}}}
	if err := p.Save(ctx, []aspect.Aspect{a}); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap = p.Load(ctx)
	if snap.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", snap.Revision)
	}
	if len(snap.Aspects) != 1 || snap.Aspects[0].Entries[0].EntriesToday[0].Text != "Ran" {
		t.Fatalf("unexpected aspects %+v", snap.Aspects)
	}
}

func TestPersistenceMalformedIsEmpty(t *testing.T) {
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, keyAspects), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	if got := p.Load(context.Background()).Aspects; len(got) != 0 {
		t.Fatalf("expected empty aspects, got %d", len(got))
	}
}

func TestPersistenceSaveAtDetectsConflict(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	first, _ := Load(testConfig{path: base})
	second, _ := Load(testConfig{path: base})

	stale := first.Load(ctx)
	if err := second.Save(ctx, []aspect.Aspect{{ID: "b", Name: "Other"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := first.SaveAt(ctx, stale.Revision, []aspect.Aspect{{ID: "a", Name: "Mine"}}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	fresh := first.Load(ctx)
	rev, err := first.SaveAt(ctx, fresh.Revision, []aspect.Aspect{{ID: "a", Name: "Mine"}})
	if err != nil {
		t.Fatalf("save at fresh revision: %v", err)
	}
	if rev != fresh.Revision+1 {
		t.Fatalf("expected revision %d, got %d", fresh.Revision+1, rev)
	}
}

func TestPersistenceScalars(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	if err := p.SetUserName("Ada"); err != nil {
		t.Fatal(err)
	}
	if err := p.SetBestStreak(12); err != nil {
		t.Fatal(err)
	}
	if err := p.SetPendingUndo([]byte(`{"kind":"entry"}`)); err != nil {
		t.Fatal(err)
	}
	if p.UserName() != "Ada" || p.BestStreak() != 12 || string(p.PendingUndo()) != `{"kind":"entry"}` {
		t.Fatalf("scalars not persisted")
	}
	if err := p.ClearPendingUndo(); err != nil {
		t.Fatal(err)
	}
	if p.PendingUndo() != nil {
		t.Fatal("expected undo slot to be cleared")
	}
	if err := p.ClearPendingUndo(); err != nil {
		t.Fatalf("clearing twice: %v", err)
	}
}

func TestPersistenceWatchEmitsKeyChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before storing.
	time.Sleep(50 * time.Millisecond)

	if err := p.Save(ctx, []aspect.Aspect{{ID: "a", Name: "Inbox"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated || evt.Key == keyAspects {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for aspects change event")
		}
	}
}
