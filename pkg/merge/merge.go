package merge

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/grid/pkg/aspect"
)

// DuplicateWindow is how close two same-text entries must be to count as one.
const DuplicateWindow = 5 * time.Minute

// Strategy selects how an import is applied.
type Strategy string

const (
	StrategyMerge   Strategy = "merge"
	StrategyReplace Strategy = "replace"
)

// ParseStrategy accepts "merge" or "replace", case-insensitively. An empty
// string picks the default for the current data.
func ParseStrategy(s string, haveData bool) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		if haveData {
			return StrategyMerge, nil
		}
		return StrategyReplace, nil
	case StrategyMerge:
		return StrategyMerge, nil
	case StrategyReplace:
		return StrategyReplace, nil
	}
	return "", fmt.Errorf("merge: unknown strategy %q", s)
}

// Report counts what a merge did.
type Report struct {
	Processed      int `json:"processed" yaml:"processed"`
	Added          int `json:"added" yaml:"added"`
	Merged         int `json:"merged" yaml:"merged"`
	EntriesAdded   int `json:"entriesAdded" yaml:"entriesAdded"`
	EntriesSkipped int `json:"entriesSkipped" yaml:"entriesSkipped"`
}

// Replace returns the payload's aspects as the new collection. Ids are kept.
func Replace(p Payload) []aspect.Aspect {
	out := make([]aspect.Aspect, 0, len(p.Aspects))
	for _, a := range p.Aspects {
		a = a.Clone()
		a.Name = aspect.FormatName(a.Name)
		if a.Entries == nil {
			a.Entries = []aspect.DayBucket{}
		}
		a.Normalize()
		out = append(out, a)
	}
	capPins(out)
	return out
}

// Merge folds imported into current and returns the combined collection.
// Neither input is modified. Aspects are matched by case-folded formatted
// name; unmatched ones are appended under a fresh id from ids.
func Merge(current, imported []aspect.Aspect, ids aspect.IDSource) ([]aspect.Aspect, Report) {
	var r Report
	out := aspect.CloneAll(current)
	if out == nil {
		out = []aspect.Aspect{}
	}
	byName := make(map[string]int, len(out))
	for i := range out {
		byName[aspect.NameKey(out[i].Name)] = i
	}

	for _, imp := range imported {
		name := aspect.FormatName(imp.Name)
		if name == "" {
			continue
		}
		r.Processed++
		key := strings.ToLower(name)

		i, ok := byName[key]
		if !ok {
			a := imp.Clone()
			a.ID = ids.NewID(aspect.AspectPrefix)
			a.Name = name
			if a.Entries == nil {
				a.Entries = []aspect.DayBucket{}
			}
			a.Normalize()
			if a.Starred && aspect.StarredCount(out) >= aspect.MaxStarred {
				a.Starred = false
			}
			r.EntriesAdded += a.TotalEntries()
			out = append(out, a)
			byName[key] = len(out) - 1
			r.Added++
			continue
		}

		added, skipped := mergeInto(&out[i], imp)
		r.EntriesAdded += added
		r.EntriesSkipped += skipped
		r.Merged++
	}
	return out, r
}

func mergeInto(dst *aspect.Aspect, src aspect.Aspect) (added, skipped int) {
	dst.Normalize()
	if older(src.Created, dst.Created) {
		dst.Created = src.Created
		dst.Time = src.Time
	}
	for _, day := range src.Entries {
		if len(day.EntriesToday) == 0 {
			continue
		}
		b := dst.Bucket(day.Date)
		if b < 0 {
			dst.Entries = append(dst.Entries, day.Clone())
			added += len(day.EntriesToday)
			continue
		}
		for _, e := range day.EntriesToday {
			if containsDuplicate(dst.Entries[b].EntriesToday, e) {
				skipped++
				continue
			}
			dst.Entries[b].EntriesToday = append(dst.Entries[b].EntriesToday, e)
			added++
		}
	}
	dst.Normalize()
	return added, skipped
}

// older reports whether date a is strictly before date b. An unparseable b
// loses to any parseable a.
func older(a, b string) bool {
	at, aok := aspect.ParseDay(a)
	if !aok {
		return false
	}
	bt, bok := aspect.ParseDay(b)
	if !bok {
		return true
	}
	return at.Before(bt)
}

func containsDuplicate(entries []aspect.Entry, e aspect.Entry) bool {
	for _, existing := range entries {
		if Duplicate(existing, e) {
			return true
		}
	}
	return false
}

// Duplicate reports whether two entries of the same day are the same log line:
// equal trimmed text ignoring case, logged less than DuplicateWindow apart.
func Duplicate(a, b aspect.Entry) bool {
	if !strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(b.Text)) {
		return false
	}
	at, aok := aspect.ParseClock(a.Time)
	bt, bok := aspect.ParseClock(b.Time)
	if !aok || !bok {
		return strings.TrimSpace(a.Time) == strings.TrimSpace(b.Time)
	}
	diff := at - bt
	if diff < 0 {
		diff = -diff
	}
	return diff < DuplicateWindow
}

// capPins unstars aspects past the pin limit, keeping the first ones.
func capPins(list []aspect.Aspect) {
	n := 0
	for i := range list {
		if !list[i].Starred {
			continue
		}
		n++
		if n > aspect.MaxStarred {
			list[i].Starred = false
		}
	}
}
