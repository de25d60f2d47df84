package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/stats"
)

var now = time.Date(2025, time.March, 10, 14, 0, 0, 0, time.Local)

func init() {
	color.NoColor = true
}

func sample() []aspect.Aspect {
	return []aspect.Aspect{
		{ID: "aspect_2", Name: "Reading", Created: "Sun Mar 09 2025", Time: "8:00:00 AM"},
		{ID: "aspect_1", Name: "Health", Created: "Sat Mar 01 2025", Time: "9:00:00 AM", Starred: true, Entries: []aspect.DayBucket{
			{Date: "Mon Mar 10 2025", EntriesToday: []aspect.Entry{{ID: "e1", Text: "Ran 5km", Time: "7:00:00 AM"}}},
		}},
	}
}

func TestAspectsPinnedFirst(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, Now: now}
	pp.Aspects(sample())

	out := buf.String()
	if strings.Index(out, "Health") > strings.Index(out, "Reading") {
		t.Fatalf("pinned aspect should come first:\n%s", out)
	}
	for _, want := range []string{pinMark, "Ran 5km", "Today 07:00", stats.NoEntries} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestAspectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Aspects(nil)
	if !strings.Contains(buf.String(), "No aspects yet") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestAspectDetailShowsIDs(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, Now: now, ShowID: true}
	pp.Aspect(sample()[1])
	out := buf.String()
	for _, want := range []string{"Health - 1 entry", "Today", "e1", "7:00:00 AM", "Ran 5km"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestImportReport(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.ImportReport(merge.StrategyMerge, merge.Report{Processed: 2, Added: 1, Merged: 1, EntriesAdded: 1, EntriesSkipped: 3})
	want := "Merged 2 aspects: 1 new, 1 combined, 1 entry added, 3 duplicates skipped.\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestActivity(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Activity(now, sample()...)
	out := buf.String()
	if !strings.Contains(out, "March") || !strings.Contains(out, "31") {
		t.Fatalf("unexpected calendar:\n%s", out)
	}
	// March 2025 starts on a Saturday.
	if !strings.Contains(out, strings.Repeat("   ", 6)+" 1 \n") {
		t.Fatalf("first week misaligned:\n%q", out)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{1, "entry", "1 entry"},
		{2, "entry", "2 entries"},
		{0, "day", "0 days"},
		{3, "day", "3 days"},
		{1, "day", "1 day"},
		{2, "aspect", "2 aspects"},
		{2, "key", "2 keys"},
		{2, "story", "2 stories"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}
