package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/schedule"
	"tableflip.dev/grid/pkg/store"
	"tableflip.dev/grid/pkg/undo"
)

var now = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

type harness struct {
	mem   *store.Memory
	clock *schedule.Fake
	buf   *undo.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true
	h := &harness{mem: store.NewMemory(), clock: schedule.NewFake(now)}
	h.buf = undo.New(undo.DefaultWindow, h.clock, h.mem, nil)

	prev := openService
	openService = func() (*app.Service, error) {
		return &app.Service{Persistence: h.mem, Clock: h.clock, Buffer: h.buf}, nil
	}
	t.Cleanup(func() { openService = prev })
	return h
}

func (h *harness) run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), "grid %v: %s", args, out.String())
	return out.String()
}

func TestAddLogAndList(t *testing.T) {
	h := newHarness(t)

	require.Contains(t, h.run(t, "add", "health"), "Added Health.")
	require.Contains(t, h.run(t, "log", "health", "ran", "5km"), "Logged to Health")

	out := h.run(t, "ls", "--json")
	var list []aspect.Aspect
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Health", list[0].Name)
	require.Equal(t, 1, list[0].TotalEntries())
	require.Equal(t, "ran 5km", list[0].Entries[0].EntriesToday[0].Text)

	require.Contains(t, h.run(t, "ls", "health"), "ran 5km")
}

func TestDeleteAndUndo(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "health")
	h.run(t, "log", "health", "stretch")

	require.Contains(t, h.run(t, "delete", "health", "--yes"), "Deleted Health.")
	require.Empty(t, h.mem.Load(context.Background()).Aspects)

	require.Contains(t, h.run(t, "undo"), "Restored Health.")
	require.Len(t, h.mem.Load(context.Background()).Aspects, 1)

	require.Contains(t, h.run(t, "undo"), "Nothing to undo.")
}

func TestUndoExpires(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "health")
	h.run(t, "delete", "health", "--yes")

	h.clock.Advance(undo.DefaultWindow + time.Second)
	out := h.run(t, "undo")
	require.Contains(t, out, "Nothing to undo.")
	require.Empty(t, h.mem.Load(context.Background()).Aspects)
}

func TestUnknownAspectSuggests(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "reading")

	var out bytes.Buffer
	cmd := New()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"pin", "readng"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "did you mean Reading")
}

func TestJSONErrors(t *testing.T) {
	newHarness(t)
	prev := output.JSON
	t.Cleanup(func() { output.JSON = prev })

	var out bytes.Buffer
	prevOut := color.Output
	color.Output = &out
	t.Cleanup(func() { color.Output = prevOut })

	cmd := New()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json", "pin", "nothing"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), `"error":`)
}

func TestImportExportRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "health")
	h.run(t, "log", "health", "ran 5km")

	dir := t.TempDir()
	h.run(t, "export", "-f", dir)
	path := filepath.Join(dir, "GrowthGrid-backup-"+now.UTC().Format(aspect.LayoutISO)+".json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	p, res := merge.Decode(data)
	require.True(t, res.OK)
	require.Equal(t, merge.AppName, p.App)

	out := h.run(t, "import", path)
	require.Contains(t, out, "Merged 1 aspect: 0 new, 1 combined, 0 entries added, 1 duplicates skipped.")
	require.Equal(t, 1, h.mem.Load(context.Background()).Aspects[0].TotalEntries())
}

func TestExportToStdout(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "health")
	h.run(t, "log", "health", "ran 5km")

	p, res := merge.Decode([]byte(h.run(t, "export")))
	require.True(t, res.OK)
	require.Len(t, p.Aspects, 1)
	require.Equal(t, "Health", p.Aspects[0].Name)

	out := h.run(t, "export", "health")
	require.Contains(t, out, "GROWTHGRID EXPORT - Health")
	require.Contains(t, out, "ran 5km")
}

func TestStatsYAML(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "health")
	h.run(t, "log", "health", "walk")

	out := h.run(t, "stats", "-o", "yaml")
	require.Contains(t, out, "streak: 1")
	require.Contains(t, out, "totalEntries: 1")
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.run(t, "add", "health")
	h.run(t, "log", "health", "ran 5km")

	require.Contains(t, h.run(t, "search", "5KM"), "ran 5km")
	require.Contains(t, h.run(t, "search", "swim"), "Nothing matches")
}
