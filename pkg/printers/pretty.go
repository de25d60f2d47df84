package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/stats"
)

// PrettyPrint renders grid data for a terminal.
type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
	// Now anchors Today/Yesterday headers; time.Now when zero.
	Now time.Time
}

const pinMark = "★"

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Info prints a plain status line.
func (pp *PrettyPrint) Info(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(pp.out(), format+"\n", args...)
}

// Warn prints a highlighted warning line.
func (pp *PrettyPrint) Warn(format string, args ...interface{}) {
	_, _ = color.New(color.FgYellow).Fprintf(pp.out(), format+"\n", args...)
}

// Aspects prints the overview: pinned aspects first, then the rest in
// collection order.
func (pp *PrettyPrint) Aspects(list []aspect.Aspect) {
	if len(list) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), "No aspects yet. Create your first one with grid add.\n\n")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	pin := color.New(color.FgHiYellow)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	row := func(a aspect.Aspect) {
		mark := " "
		if a.Starred {
			mark = pin.Sprint(pinMark)
		}
		last := stats.LastEntry(a, pp.now())
		cells := []interface{}{
			mark,
			bold.Sprint(a.Name),
			faint.Sprintf("%d", a.TotalEntries()),
			last.Text,
			faint.Sprint(last.When),
		}
		if pp.ShowID {
			cells = append([]interface{}{id.Sprint(a.ID)}, cells...)
		}
		tbl.AddRow(cells...)
	}
	for _, a := range list {
		if a.Starred {
			row(a)
		}
	}
	for _, a := range list {
		if !a.Starred {
			row(a)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Aspect prints one aspect with its entries grouped by day.
func (pp *PrettyPrint) Aspect(a aspect.Aspect) {
	title := a.Name
	if a.Starred {
		title = pinMark + " " + title
	}
	pp.TitleWithCount(title, a.TotalEntries())
	faint := color.New(color.Faint)
	_, _ = faint.Fprintf(pp.out(), "created %s\n\n", stats.When(a.Created, a.Time, pp.now()))

	if len(a.Entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), " none\n\n")
		return
	}
	day := color.New(color.Bold)
	clock := color.New(color.FgCyan)
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, b := range a.Entries {
		_, _ = day.Fprintln(pp.out(), stats.DayHeader(b.Date, pp.now()))
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.Wrap = true
		tbl.MaxColWidth = 60
		for _, e := range b.EntriesToday {
			cells := []interface{}{clock.Sprint(e.Time), e.Text}
			if pp.ShowID {
				cells = append([]interface{}{id.Sprint(e.ID)}, cells...)
			}
			tbl.AddRow(cells...)
		}
		_, _ = fmt.Fprintln(pp.out(), tbl)
		pp.NewLine()
	}
}

// Stats prints the stats panel.
func (pp *PrettyPrint) Stats(s stats.Snapshot) {
	greeting := s.Greeting
	if s.UserName != "" {
		greeting += ", " + s.UserName
	}
	pp.Title(greeting)

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Aspects", bold.Sprint(s.Aspects))
	tbl.AddRow("Entries", bold.Sprint(s.TotalEntries))
	tbl.AddRow("Today", bold.Sprint(s.EntriesToday))
	tbl.AddRow("Active days", bold.Sprint(s.ActiveDays))
	tbl.AddRow("Streak", bold.Sprint(plural(s.Streak, "day")))
	tbl.AddRow("Best streak", bold.Sprint(plural(s.BestStreak, "day")))
	if s.MostActive != "" {
		tbl.AddRow("Most active", bold.Sprint(s.MostActive))
	}
	if len(s.Starred) > 0 {
		tbl.AddRow("Pinned", bold.Sprint(strings.Join(s.Starred, ", ")))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Search prints search results.
func (pp *PrettyPrint) Search(query string, matches []stats.Match) {
	if len(matches) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintf(pp.out(), "Nothing matches %q.\n", query)
		return
	}
	clock := color.New(color.FgCyan)
	faint := color.New(color.Faint)
	for _, m := range matches {
		pp.Title(m.Name)
		for _, e := range m.Entries {
			_, _ = fmt.Fprintf(pp.out(), "  %s %s\n", clock.Sprint(stats.When(e.Date, e.Entry.Time, pp.now())), e.Entry.Text)
		}
		if m.More > 0 {
			_, _ = faint.Fprintf(pp.out(), "  +%d more\n", m.More)
		}
		pp.NewLine()
	}
}

// ImportPreview prints what an import file holds.
func (pp *PrettyPrint) ImportPreview(s merge.Summary) {
	pp.Title("Import preview")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Aspects", s.Aspects)
	tbl.AddRow("Entries", s.Entries)
	if s.UserName != "" {
		tbl.AddRow("From", s.UserName)
	}
	if s.ExportDate != "" {
		tbl.AddRow("Exported", s.ExportDate)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// ImportReport prints the outcome of an import.
func (pp *PrettyPrint) ImportReport(strategy merge.Strategy, r merge.Report) {
	green := color.New(color.FgGreen)
	switch strategy {
	case merge.StrategyReplace:
		_, _ = green.Fprintf(pp.out(), "Replaced with %s (%s).\n", plural(r.Processed, "aspect"), plural(r.EntriesAdded, "entry"))
	default:
		_, _ = green.Fprintf(pp.out(), "Merged %s: %d new, %d combined, %s added, %d duplicates skipped.\n",
			plural(r.Processed, "aspect"), r.Added, r.Merged, plural(r.EntriesAdded, "entry"), r.EntriesSkipped)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if stem := strings.TrimSuffix(noun, "y"); stem != noun && stem != "" && !strings.ContainsAny(stem[len(stem)-1:], "aeiou") {
		return fmt.Sprintf("%d %sies", n, stem)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
