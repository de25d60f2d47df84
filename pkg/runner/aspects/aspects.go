// Package aspects runs the aspect lifecycle commands.
package aspects

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/prompt"
)

type Add struct {
	Name string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Add) Do(ctx context.Context) error {
	a, err := n.Service.AddAspect(ctx, n.Name)
	if err != nil {
		return err
	}
	n.Printer.Info("Added %s.", a.Name)
	return nil
}

type Rename struct {
	Ref  string
	Name string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Rename) Do(ctx context.Context) error {
	a, err := n.Service.Resolve(ctx, n.Ref)
	if err != nil {
		return err
	}
	renamed, err := n.Service.RenameAspect(ctx, a.ID, n.Name)
	if err != nil {
		return err
	}
	n.Printer.Info("Renamed %s to %s.", a.Name, renamed.Name)
	return nil
}

type Delete struct {
	Ref string

	Service  *app.Service
	Prompter *prompt.Prompter
	Printer  *printers.PrettyPrint
}

func (n *Delete) Do(ctx context.Context) error {
	a, err := n.Service.Resolve(ctx, n.Ref)
	if err != nil {
		return err
	}
	if err := n.Prompter.Confirm(DeleteQuestion(a.Name, a.TotalEntries()), false); err != nil {
		return err
	}
	gone, deadline, err := n.Service.DeleteAspect(ctx, a.ID)
	if err != nil {
		return err
	}
	n.Printer.Info("Deleted %s. %s", gone.Name, UndoHint(deadline, n.Service.Now()))
	return nil
}

// DeleteQuestion is the confirmation shown before an aspect is deleted.
func DeleteQuestion(name string, entries int) string {
	switch entries {
	case 0:
		return fmt.Sprintf("Delete %s?", name)
	case 1:
		return fmt.Sprintf("Delete %s and its 1 entry?", name)
	default:
		return fmt.Sprintf("Delete %s and all %d entries?", name, entries)
	}
}

// UndoHint tells the user how long grid undo stays available.
func UndoHint(deadline, now time.Time) string {
	left := deadline.Sub(now).Round(time.Second)
	if left <= 0 {
		return ""
	}
	return fmt.Sprintf("Run grid undo within %s to restore it.", left)
}

type Pin struct {
	Ref string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Pin) Do(ctx context.Context) error {
	a, err := n.Service.Resolve(ctx, n.Ref)
	if err != nil {
		return err
	}
	toggled, err := n.Service.TogglePin(ctx, a.ID)
	if err != nil {
		return err
	}
	if toggled.Starred {
		n.Printer.Info("Pinned %s.", toggled.Name)
	} else {
		n.Printer.Info("Unpinned %s.", toggled.Name)
	}
	return nil
}
