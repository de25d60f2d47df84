package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/schedule"
	"tableflip.dev/grid/pkg/store"
	"tableflip.dev/grid/pkg/undo"
)

var start = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s_%d", prefix, s.n)
}

type recorder struct {
	mu   sync.Mutex
	msgs []broadcast.Message
	fail bool
}

func (r *recorder) Broadcast(_ context.Context, m broadcast.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("channel unavailable")
	}
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recorder) Listen(ctx context.Context) (<-chan broadcast.Message, error) {
	return broadcast.Nop{}.Listen(ctx)
}

func (r *recorder) Origin() string { return "test" }
func (r *recorder) Close() error   { return nil }

func (r *recorder) types() []broadcast.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]broadcast.EventType, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) last() broadcast.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return broadcast.Message{}
	}
	return r.msgs[len(r.msgs)-1]
}

type fixture struct {
	svc   *Service
	mem   *store.Memory
	rec   *recorder
	clock *schedule.Fake
}

func newFixture(aspects ...aspect.Aspect) *fixture {
	f := &fixture{
		mem:   store.NewMemory(aspects...),
		rec:   &recorder{},
		clock: schedule.NewFake(start),
	}
	f.svc = f.sibling()
	return f
}

// sibling is another process sharing the same store and clock.
func (f *fixture) sibling() *Service {
	return &Service{Persistence: f.mem, Channel: f.rec, IDs: &seqIDs{}, Clock: f.clock}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestAddAspect(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.AddAspect(ctx, "  health   and fitness ")
	if err != nil {
		t.Fatalf("AddAspect: %v", err)
	}
	if a.Name != "Health And Fitness" || a.Starred || len(a.Entries) != 0 {
		t.Fatalf("unexpected aspect %+v", a)
	}
	if a.Created != aspect.Day(start) || a.Time != aspect.Clock(start) {
		t.Fatalf("created %q %q", a.Created, a.Time)
	}
	b, err := f.svc.AddAspect(ctx, "Reading")
	if err != nil {
		t.Fatalf("AddAspect: %v", err)
	}
	list, _ := f.svc.Aspects(ctx)
	if len(list) != 2 || list[0].ID != b.ID {
		t.Fatalf("new aspects should be prepended, got %+v", list)
	}
	if m := f.rec.last(); m.Type != broadcast.AspectAdded || m.Data.ID != b.ID || m.Data.Name != "Reading" {
		t.Fatalf("unexpected broadcast %+v", m)
	}

	before := f.mem.Load(ctx)
	if _, err := f.svc.AddAspect(ctx, "READING"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate name error = %v", err)
	}
	if _, err := f.svc.AddAspect(ctx, " !!! "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("empty name error = %v", err)
	}
	after := f.mem.Load(ctx)
	if before.Revision != after.Revision || mustJSON(t, before.Aspects) != mustJSON(t, after.Aspects) {
		t.Fatal("rejected add changed the store")
	}
}

func TestRenameAspect(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	health, _ := f.svc.AddAspect(ctx, "Health")
	f.svc.AddAspect(ctx, "Reading")

	if _, err := f.svc.RenameAspect(ctx, health.ID, "reading"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("rename onto existing name error = %v", err)
	}
	if _, err := f.svc.RenameAspect(ctx, health.ID, "health"); !errors.Is(err, ErrUnchanged) {
		t.Fatalf("rename to same formatted name error = %v", err)
	}
	if _, err := f.svc.RenameAspect(ctx, health.ID, "x"); !errors.Is(err, ErrNameTooShort) {
		t.Fatalf("short name error = %v", err)
	}
	if _, err := f.svc.RenameAspect(ctx, "aspect_missing", "Sleep"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing aspect error = %v", err)
	}
	got, err := f.svc.RenameAspect(ctx, health.ID, "wellbeing")
	if err != nil {
		t.Fatalf("RenameAspect: %v", err)
	}
	if got.Name != "Wellbeing" {
		t.Fatalf("name = %q", got.Name)
	}
	if m := f.rec.last(); m.Type != broadcast.AspectUpdated || m.Data.Name != "Wellbeing" {
		t.Fatalf("unexpected broadcast %+v", m)
	}
}

func TestTogglePinLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	var ids []string
	for _, name := range []string{"One", "Two", "Three", "Four"} {
		a, err := f.svc.AddAspect(ctx, name)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, a.ID)
	}
	for _, id := range ids[:3] {
		if _, err := f.svc.TogglePin(ctx, id); err != nil {
			t.Fatalf("TogglePin(%s): %v", id, err)
		}
	}
	if _, err := f.svc.TogglePin(ctx, ids[3]); !errors.Is(err, ErrPinLimit) {
		t.Fatalf("fourth pin error = %v", err)
	}
	list, _ := f.svc.Aspects(ctx)
	if n := aspect.StarredCount(list); n != aspect.MaxStarred {
		t.Fatalf("starred = %d", n)
	}
	got, err := f.svc.TogglePin(ctx, ids[0])
	if err != nil || got.Starred {
		t.Fatalf("unpin: %+v %v", got, err)
	}
	if _, err := f.svc.TogglePin(ctx, ids[3]); err != nil {
		t.Fatalf("pin after unpin: %v", err)
	}
}

func TestEntryBucketCollapse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.AddAspect(ctx, "Health")

	if _, err := f.svc.AddEntry(ctx, a.ID, "   "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("empty text error = %v", err)
	}
	first, err := f.svc.AddEntry(ctx, a.ID, "Ran 5km")
	if err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Minute)
	second, err := f.svc.AddEntry(ctx, a.ID, " Stretched ")
	if err != nil {
		t.Fatal(err)
	}
	if second.Text != "Stretched" {
		t.Fatalf("text not trimmed: %q", second.Text)
	}
	if m := f.rec.last(); m.Type != broadcast.EntryAdded || m.Data.ID != second.ID || m.Data.AspectID != a.ID {
		t.Fatalf("unexpected broadcast %+v", m)
	}

	got, _ := f.svc.Aspect(ctx, a.ID)
	if len(got.Entries) != 1 || len(got.Entries[0].EntriesToday) != 2 {
		t.Fatalf("entries should share today's bucket: %+v", got.Entries)
	}
	if got.Entries[0].EntriesToday[0].ID != second.ID {
		t.Fatal("new entries should be prepended")
	}

	date := got.Entries[0].Date
	if _, _, err := f.svc.DeleteEntry(ctx, a.ID, date, second.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = f.svc.Aspect(ctx, a.ID)
	if len(got.Entries) != 1 {
		t.Fatalf("bucket count changed with entries left: %d", len(got.Entries))
	}
	if _, _, err := f.svc.DeleteEntry(ctx, a.ID, date, first.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = f.svc.Aspect(ctx, a.ID)
	if len(got.Entries) != 0 {
		t.Fatalf("empty bucket kept: %+v", got.Entries)
	}
	if _, _, err := f.svc.DeleteEntry(ctx, a.ID, date, first.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("second delete error = %v", err)
	}
}

func TestDeleteAspectUndo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	health, _ := f.svc.AddAspect(ctx, "Health")
	f.svc.AddEntry(ctx, health.ID, "Ran 5km")
	f.clock.Advance(time.Hour)
	f.svc.AddEntry(ctx, health.ID, "Yoga")
	f.svc.TogglePin(ctx, health.ID)
	f.svc.AddAspect(ctx, "Reading")

	before := f.mem.Load(ctx).Aspects
	removed, deadline, err := f.svc.DeleteAspect(ctx, health.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := f.clock.Now().Add(undo.DefaultWindow); !deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", deadline, want)
	}
	if removed.TotalEntries() != 2 {
		t.Fatalf("removed = %+v", removed)
	}
	if m := f.rec.last(); m.Type != broadcast.AspectDeleted || m.Data.ID != health.ID {
		t.Fatalf("unexpected broadcast %+v", m)
	}

	f.clock.Advance(5 * time.Second)
	r, err := f.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if r.Kind != undo.KindAspect || !r.Aspect.Starred {
		t.Fatalf("restored %+v", r)
	}
	after := f.mem.Load(ctx).Aspects
	if mustJSON(t, before) != mustJSON(t, after) {
		t.Fatalf("undo did not restore the collection:\nbefore %s\nafter  %s", mustJSON(t, before), mustJSON(t, after))
	}
	if _, err := f.svc.Undo(ctx); !errors.Is(err, undo.ErrEmpty) {
		t.Fatalf("second undo error = %v", err)
	}
}

func TestInjectedUndoBuffer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	buf := undo.New(3*time.Second, f.clock, f.mem, nil)
	f.svc.Buffer = buf
	health, _ := f.svc.AddAspect(ctx, "Health")

	_, deadline, err := f.svc.DeleteAspect(ctx, health.ID)
	if err != nil {
		t.Fatal(err)
	}
	if want := f.clock.Now().Add(3 * time.Second); !deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", deadline, want)
	}
	if p, err := buf.Peek(); err != nil || p.Kind != undo.KindAspect {
		t.Fatalf("Peek = %+v, %v", p, err)
	}
	if _, err := f.svc.Undo(ctx); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := len(f.mem.Load(ctx).Aspects); got != 1 {
		t.Fatalf("aspects after undo = %d, want 1", got)
	}
}

func TestUndoWindowExpires(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.AddAspect(ctx, "Health")
	if _, _, err := f.svc.DeleteAspect(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(undo.DefaultWindow + time.Second)
	if _, err := f.svc.Undo(ctx); !errors.Is(err, undo.ErrEmpty) && !errors.Is(err, undo.ErrExpired) {
		t.Fatalf("late undo error = %v", err)
	}
	if list, _ := f.svc.Aspects(ctx); len(list) != 0 {
		t.Fatalf("aspect came back: %+v", list)
	}
}

func TestUndoEntryFromSibling(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.AddAspect(ctx, "Health")
	e, _ := f.svc.AddEntry(ctx, a.ID, "Ran 5km")
	before := f.mem.Load(ctx).Aspects

	got, _ := f.svc.Aspect(ctx, a.ID)
	if _, _, err := f.svc.DeleteEntry(ctx, a.ID, got.Entries[0].Date, e.ID); err != nil {
		t.Fatal(err)
	}

	// A separate grid undo process restores through the mirrored slot.
	r, err := f.sibling().Undo(ctx)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if r.Kind != undo.KindEntry || r.Entry.ID != e.ID {
		t.Fatalf("restored %+v", r)
	}
	if mustJSON(t, before) != mustJSON(t, f.mem.Load(ctx).Aspects) {
		t.Fatal("entry undo was not byte for byte")
	}
}

func TestUndoRejectsNameClash(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.AddAspect(ctx, "Health")
	f.svc.DeleteAspect(ctx, a.ID)
	f.svc.AddAspect(ctx, "health")

	if _, err := f.svc.Undo(ctx); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("undo into a taken name error = %v", err)
	}
}

// racingStore lets another writer slip in before the first n SaveAt calls.
type racingStore struct {
	*store.Memory
	races int
}

func (r *racingStore) SaveAt(ctx context.Context, expected uint64, aspects []aspect.Aspect) (uint64, error) {
	if r.races > 0 {
		r.races--
		snap := r.Memory.Load(ctx)
		other := aspect.New(fmt.Sprintf("aspect_other_%d", r.races), fmt.Sprintf("Other %d", r.races), aspect.Day(start), aspect.Clock(start))
		if err := r.Memory.Save(ctx, append(snap.Aspects, other)); err != nil {
			return 0, err
		}
	}
	return r.Memory.SaveAt(ctx, expected, aspects)
}

func TestMutateRetriesOnConflict(t *testing.T) {
	rs := &racingStore{Memory: store.NewMemory(), races: 2}
	svc := &Service{Persistence: rs, IDs: &seqIDs{}, Clock: schedule.NewFake(start)}
	ctx := context.Background()

	if _, err := svc.AddAspect(ctx, "Health"); err != nil {
		t.Fatalf("AddAspect: %v", err)
	}
	list, _ := svc.Aspects(ctx)
	if len(list) != 3 {
		t.Fatalf("lost an update: %+v", list)
	}
	if list[0].Name != "Health" {
		t.Fatalf("Health should be first: %+v", list)
	}
}

func TestMutateGivesUp(t *testing.T) {
	rs := &racingStore{Memory: store.NewMemory(), races: maxAttempts}
	svc := &Service{Persistence: rs, IDs: &seqIDs{}, Clock: schedule.NewFake(start)}

	if _, err := svc.AddAspect(context.Background(), "Health"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
}

func TestBroadcastFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.rec.fail = true
	if _, err := f.svc.AddAspect(context.Background(), "Health"); err != nil {
		t.Fatalf("AddAspect with a broken channel: %v", err)
	}
	svc := &Service{Persistence: f.mem, Clock: f.clock}
	if _, err := svc.AddAspect(context.Background(), "Reading"); err != nil {
		t.Fatalf("AddAspect without a channel: %v", err)
	}
}

func TestNoPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.AddAspect(context.Background(), "Health"); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("error = %v", err)
	}
}

func TestImportMergeDedupesRepeatedEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	health, _ := f.svc.AddAspect(ctx, "Health")
	if _, err := f.svc.AddEntry(ctx, health.ID, "Ran 5km"); err != nil {
		t.Fatal(err)
	}

	later := start.Add(2 * time.Minute)
	payload := merge.Payload{App: merge.AppName, Aspects: []aspect.Aspect{{
		ID: "aspect_elsewhere", Name: "health", Created: aspect.Day(start), Time: aspect.Clock(later),
		Entries: []aspect.DayBucket{{Date: aspect.Day(later), EntriesToday: []aspect.Entry{
			{ID: "entry_elsewhere", Text: "Ran 5km", Time: aspect.Clock(later)},
		}}},
	}}}
	report, err := f.svc.Import(ctx, payload, merge.StrategyMerge)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Merged != 1 || report.EntriesSkipped != 1 || report.EntriesAdded != 0 {
		t.Fatalf("report = %+v", report)
	}
	got, _ := f.svc.Aspect(ctx, health.ID)
	if got.TotalEntries() != 1 {
		t.Fatalf("want exactly one Ran 5km entry, got %+v", got.Entries)
	}
	if m := f.rec.last(); m.Type != broadcast.AspectUpdated {
		t.Fatalf("unexpected broadcast %+v", m)
	}
}

func TestImportReplaceIsUndoable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.SetUserName("sam")
	f.svc.AddAspect(ctx, "Health")
	before := f.mem.Load(ctx).Aspects

	payload := merge.Payload{UserName: "alex", Aspects: []aspect.Aspect{
		{ID: "aspect_x", Name: "Music", Created: aspect.Day(start), Entries: []aspect.DayBucket{}},
	}}
	report, err := f.svc.Import(ctx, payload, merge.StrategyReplace)
	if err != nil {
		t.Fatal(err)
	}
	if report.Processed != 1 {
		t.Fatalf("report = %+v", report)
	}
	list, _ := f.svc.Aspects(ctx)
	if len(list) != 1 || list[0].ID != "aspect_x" {
		t.Fatalf("replace kept old data: %+v", list)
	}
	if name, _ := f.svc.UserName(); name != "Alex" {
		t.Fatalf("user name = %q", name)
	}

	r, err := f.svc.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if r.Kind != undo.KindSnapshot || r.Aspects != 1 {
		t.Fatalf("restored %+v", r)
	}
	if mustJSON(t, before) != mustJSON(t, f.mem.Load(ctx).Aspects) {
		t.Fatal("replace undo did not restore the collection")
	}
	if name, _ := f.svc.UserName(); name != "Sam" {
		t.Fatalf("user name after undo = %q", name)
	}
}

func TestExport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.SetUserName("sam")
	f.svc.AddAspect(ctx, "Health")

	p, err := f.svc.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p.App != merge.AppName || p.UserName != "Sam" || len(p.Aspects) != 1 || p.ExportDate == "" {
		t.Fatalf("export = %+v", p)
	}
	data, _ := json.Marshal(p)
	back, res := merge.Decode(data)
	if !res.OK || len(back.Aspects) != 1 {
		t.Fatalf("export does not decode: %+v %+v", back, res)
	}
}

func TestDailyFocusOncePerDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	quiet, _ := f.svc.AddAspect(ctx, "Quiet")
	busy, _ := f.svc.AddAspect(ctx, "Busy")
	f.svc.TogglePin(ctx, quiet.ID)
	f.svc.AddEntry(ctx, busy.ID, "one")
	f.svc.AddEntry(ctx, busy.ID, "two")

	focus, ran, err := f.svc.DailyFocus(ctx)
	if err != nil || !ran {
		t.Fatalf("DailyFocus: %v ran=%v", err, ran)
	}
	if focus.WinnerID != busy.ID || focus.Count != 2 {
		t.Fatalf("focus = %+v", focus)
	}
	list, _ := f.svc.Aspects(ctx)
	for _, a := range list {
		if a.Starred != (a.ID == busy.ID) {
			t.Fatalf("only the winner should be pinned: %+v", list)
		}
	}
	if m := f.rec.last(); m.Type != broadcast.AspectPinned || m.Data.ID != busy.ID {
		t.Fatalf("unexpected broadcast %+v", m)
	}

	// Manual pins later the same day survive.
	f.svc.TogglePin(ctx, quiet.ID)
	if _, ran, _ := f.svc.DailyFocus(ctx); ran {
		t.Fatal("focus ran twice on one day")
	}
	f.clock.Advance(24 * time.Hour)
	if _, ran, _ := f.svc.DailyFocus(ctx); !ran {
		t.Fatal("focus did not run the next day")
	}
}

func TestStatsRaisesBestStreak(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.AddAspect(ctx, "Health")
	f.svc.AddEntry(ctx, a.ID, "Ran")

	s, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Streak != 1 || s.BestStreak != 1 || s.TotalEntries != 1 {
		t.Fatalf("stats = %+v", s)
	}
	if f.mem.BestStreak() != 1 {
		t.Fatalf("best streak not persisted: %d", f.mem.BestStreak())
	}
	f.mem.SetBestStreak(9)
	s, _ = f.svc.Stats(ctx)
	if s.BestStreak != 9 || f.mem.BestStreak() != 9 {
		t.Fatalf("best streak lowered: %+v", s)
	}
}

func TestThemeAndUserName(t *testing.T) {
	f := newFixture()
	if theme, _ := f.svc.Theme(); theme != "system" {
		t.Fatalf("default theme = %q", theme)
	}
	if _, err := f.svc.SetTheme("neon"); !errors.Is(err, ErrTheme) {
		t.Fatalf("bad theme error = %v", err)
	}
	if theme, err := f.svc.SetTheme(" Dark "); err != nil || theme != "dark" {
		t.Fatalf("SetTheme = %q, %v", theme, err)
	}
	if _, err := f.svc.SetUserName("  "); !errors.Is(err, ErrEmptyUserName) {
		t.Fatalf("empty user name error = %v", err)
	}
}

func TestResolve(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	health, _ := f.svc.AddAspect(ctx, "Health")
	f.svc.AddAspect(ctx, "Reading")

	for _, ref := range []string{health.ID, "health", " HEALTH "} {
		got, err := f.svc.Resolve(ctx, ref)
		if err != nil || got.ID != health.ID {
			t.Fatalf("Resolve(%q) = %+v, %v", ref, got, err)
		}
	}
	_, err := f.svc.Resolve(ctx, "hlth")
	var nf *NotFoundError
	if !errors.As(err, &nf) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(hlth) error = %v", err)
	}
	if len(nf.Suggestions) == 0 || nf.Suggestions[0] != "Health" {
		t.Fatalf("suggestions = %v", nf.Suggestions)
	}
}
