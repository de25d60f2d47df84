// Package undo restores the most recent deletion.
package undo

import (
	"context"
	"errors"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/undo"
)

type Undo struct {
	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Undo) Do(ctx context.Context) error {
	r, err := n.Service.Undo(ctx)
	switch {
	case errors.Is(err, undo.ErrEmpty):
		n.Printer.Warn("Nothing to undo.")
		return nil
	case errors.Is(err, undo.ErrExpired):
		n.Printer.Warn("Too late, the last deletion can no longer be undone.")
		return nil
	case err != nil:
		return err
	}

	switch r.Kind {
	case undo.KindAspect:
		n.Printer.Info("Restored %s.", r.Aspect.Name)
	case undo.KindEntry:
		n.Printer.Info("Restored %q.", r.Entry.Text)
	case undo.KindSnapshot:
		n.Printer.Info("Restored the %d aspects from before the import.", r.Aspects)
	}
	return nil
}
