package stats

import (
	"time"

	"tableflip.dev/grid/pkg/aspect"
)

// FocusDays is the default daily focus window.
const FocusDays = 7

// Focus is the outcome of a daily focus run.
type Focus struct {
	// WinnerID is the aspect starred as today's focus, empty when no aspect
	// had entries in the window.
	WinnerID string
	Count    int
	// Evicted is the pinned aspect unstarred to make room, if any.
	Evicted string
}

// DailyFocus unstars every aspect and stars the one with the most entries in
// the trailing window. Ties go to the first aspect in list order. The input
// is not modified.
func DailyFocus(list []aspect.Aspect, now time.Time, days int) ([]aspect.Aspect, Focus) {
	out := aspect.CloneAll(list)
	for i := range out {
		out[i].Starred = false
	}

	var f Focus
	winner := -1
	for i := range out {
		n := EntriesWithin(out[i], now, days)
		if n > f.Count {
			f.Count = n
			winner = i
		}
	}
	if winner < 0 {
		return out, f
	}
	f.WinnerID = out[winner].ID
	f.Evicted = Pin(out, winner)
	return out, f
}

// Pin stars list[i]. When the pin limit is already reached it first unstars
// the pinned aspect with the fewest total entries and returns its id.
func Pin(list []aspect.Aspect, i int) string {
	if list[i].Starred {
		return ""
	}
	evicted := ""
	if aspect.StarredCount(list) >= aspect.MaxStarred {
		low := -1
		for j := range list {
			if !list[j].Starred {
				continue
			}
			if low < 0 || list[j].TotalEntries() < list[low].TotalEntries() {
				low = j
			}
		}
		list[low].Starred = false
		evicted = list[low].ID
	}
	list[i].Starred = true
	return evicted
}
