// Package export renders aspects as a plain-text report and the collection as
// a JSON backup.
package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/stats"
)

// ErrNoEntries is returned when exporting an aspect that has nothing logged.
var ErrNoEntries = errors.New("export: aspect has no entries")

const generatedLayout = "1/2/2006, 3:04:05 PM"

// Text writes the plain-text report for a. Entry text is wrapped to width
// columns when width is positive.
func Text(w io.Writer, a aspect.Aspect, now time.Time, width int) error {
	if a.TotalEntries() == 0 {
		return fmt.Errorf("%w: %q", ErrNoEntries, a.Name)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "GROWTHGRID EXPORT - %s\n", a.Name)
	fmt.Fprintf(bw, "Generated: %s\n", now.Format(generatedLayout))
	fmt.Fprintf(bw, "Total Entries: %d\n", a.TotalEntries())
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("=", 50))

	for _, day := range a.Entries {
		fmt.Fprintln(bw, stats.DayHeader(day.Date, now))
		fmt.Fprintln(bw, strings.Repeat("-", 30))
		for _, e := range day.EntriesToday {
			writeEntry(bw, e, width)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func writeEntry(w io.Writer, e aspect.Entry, width int) {
	prefix := "[" + e.Time + "] "
	text := e.Text
	if width > len(prefix)+10 {
		text = wordwrap.String(text, width-len(prefix))
	}
	lines := strings.Split(text, "\n")
	fmt.Fprintf(w, "%s%s\n", prefix, lines[0])
	pad := strings.Repeat(" ", len(prefix))
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "%s%s\n", pad, line)
	}
}

// TextString is Text into a string.
func TextString(a aspect.Aspect, now time.Time, width int) (string, error) {
	var b strings.Builder
	if err := Text(&b, a, now, width); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FileName is the download name for an aspect report.
func FileName(a aspect.Aspect, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s.txt", merge.AppName, safeName(a.Name), now.UTC().Format(aspect.LayoutISO))
}

// BackupName is the download name for a JSON backup.
func BackupName(now time.Time) string {
	return fmt.Sprintf("%s-backup-%s.json", merge.AppName, now.UTC().Format(aspect.LayoutISO))
}

func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '-'
		}
		return r
	}, name)
}

// JSON writes p as an indented backup that Decode reads back.
func JSON(w io.Writer, p merge.Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("export: encode backup: %w", err)
	}
	return nil
}
