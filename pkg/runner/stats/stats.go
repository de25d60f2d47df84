// Package stats prints derived statistics and search results.
package stats

import (
	"context"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/stats"
)

type Stats struct {
	// Output is empty for the pretty panel, or json or yaml.
	Output string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Stats) Do(ctx context.Context) error {
	s, err := n.Service.Stats(ctx)
	if err != nil {
		return err
	}
	return n.Printer.Emit(n.Output, s, func() { n.Printer.Stats(s) })
}

type Search struct {
	Query  string
	Output string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Search) Do(ctx context.Context) error {
	matches, err := n.Service.Search(ctx, n.Query)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []stats.Match{}
	}
	return n.Printer.Emit(n.Output, matches, func() { n.Printer.Search(n.Query, matches) })
}

type Focus struct {
	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Focus) Do(ctx context.Context) error {
	f, ran, err := n.Service.DailyFocus(ctx)
	if err != nil {
		return err
	}
	if !ran {
		n.Printer.Info("Today's focus is already set.")
		return nil
	}
	if f.WinnerID == "" {
		n.Printer.Info("No activity in the last %d days, nothing pinned.", n.days())
		return nil
	}
	a, err := n.Service.Aspect(ctx, f.WinnerID)
	if err != nil {
		return err
	}
	n.Printer.Info("Today's focus: %s (%d entries this week).", a.Name, f.Count)
	return nil
}

func (n *Focus) days() int {
	if n.Service.FocusDays > 0 {
		return n.Service.FocusDays
	}
	return stats.FocusDays
}
