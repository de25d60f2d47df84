package stats

import (
	"strings"

	"tableflip.dev/grid/pkg/aspect"
)

// SearchLimit is how many matching entries a search result shows per aspect.
const SearchLimit = 3

// EntryMatch is an entry hit together with its day.
type EntryMatch struct {
	Date  string       `json:"date" yaml:"date"`
	Entry aspect.Entry `json:"entry" yaml:"entry"`
}

// Match is one aspect in a search result.
type Match struct {
	AspectID    string       `json:"aspectId" yaml:"aspectId"`
	Name        string       `json:"name" yaml:"name"`
	NameMatched bool         `json:"nameMatched" yaml:"nameMatched"`
	Entries     []EntryMatch `json:"entries" yaml:"entries"`
	More        int          `json:"more,omitempty" yaml:"more,omitempty"`
}

// Search finds aspects whose name or entry text contains query, ignoring
// case. Each match carries at most SearchLimit entries; More counts the rest.
func Search(list []aspect.Aspect, query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Match
	for _, a := range list {
		m := Match{
			AspectID:    a.ID,
			Name:        a.Name,
			NameMatched: strings.Contains(strings.ToLower(a.Name), q),
			Entries:     []EntryMatch{},
		}
		hits := 0
		for _, day := range a.Entries {
			for _, e := range day.EntriesToday {
				if !strings.Contains(strings.ToLower(e.Text), q) {
					continue
				}
				hits++
				if hits <= SearchLimit {
					m.Entries = append(m.Entries, EntryMatch{Date: day.Date, Entry: e})
				}
			}
		}
		if !m.NameMatched && hits == 0 {
			continue
		}
		if hits > SearchLimit {
			m.More = hits - SearchLimit
		}
		out = append(out, m)
	}
	return out
}
