package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/merge"
)

var now = time.Date(2025, time.March, 10, 14, 5, 9, 0, time.Local)

func health() aspect.Aspect {
	return aspect.Aspect{ID: "aspect_1", Name: "Health", Created: "Sat Mar 01 2025", Entries: []aspect.DayBucket{
		{Date: "Mon Mar 10 2025", EntriesToday: []aspect.Entry{
			{ID: "e2", Text: "Stretched", Time: "1:00:00 PM"},
			{ID: "e1", Text: "Ran 5km", Time: "7:00:00 AM"},
		}},
		{Date: "Wed Mar 05 2025", EntriesToday: []aspect.Entry{{ID: "e0", Text: "Swim", Time: "6:30:00 PM"}}},
	}}
}

func TestText(t *testing.T) {
	got, err := TextString(health(), now, 0)
	require.NoError(t, err)

	want := strings.Join([]string{
		"GROWTHGRID EXPORT - Health",
		"Generated: 3/10/2025, 2:05:09 PM",
		"Total Entries: 3",
		strings.Repeat("=", 50),
		"",
		"Today",
		strings.Repeat("-", 30),
		"[1:00:00 PM] Stretched",
		"[7:00:00 AM] Ran 5km",
		"",
		"Mar 5, 2025",
		strings.Repeat("-", 30),
		"[6:30:00 PM] Swim",
		"",
		"",
	}, "\n")
	require.Equal(t, want, got)
}

func TestTextWraps(t *testing.T) {
	a := health()
	a.Entries = a.Entries[1:]
	a.Entries[0].EntriesToday[0].Text = "a long swim across the whole lake and back again"

	got, err := TextString(a, now, 40)
	require.NoError(t, err)
	require.Contains(t, got, "[6:30:00 PM] a long swim across the\n")
	require.Contains(t, got, "\n             whole lake and back again\n")
}

func TestTextNoEntries(t *testing.T) {
	_, err := TextString(aspect.New("aspect_2", "Sleep", "Mon Mar 10 2025", "9:00:00 AM"), now, 0)
	require.True(t, errors.Is(err, ErrNoEntries))
}

func TestFileNames(t *testing.T) {
	at := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "GrowthGrid-Health-2025-03-10.txt", FileName(health(), at))
	require.Equal(t, "GrowthGrid-backup-2025-03-10.json", BackupName(at))
	require.Equal(t, "GrowthGrid-A-B-2025-03-10.txt", FileName(aspect.Aspect{Name: "A/B"}, at))
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	p := merge.Payload{UserName: "Sam", App: merge.AppName, ExportDate: "2025-03-10T12:00:00Z", Aspects: []aspect.Aspect{health()}}
	require.NoError(t, JSON(&buf, p))

	back, res := merge.Decode(buf.Bytes())
	require.True(t, res.OK)
	require.Equal(t, p, back)
}
