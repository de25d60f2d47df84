// Package share copies an aspect report to the clipboard.
package share

import (
	"context"
	"fmt"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/export"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/prompt"
	"tableflip.dev/grid/pkg/share"
)

type Share struct {
	Ref   string
	Width int

	Service  *app.Service
	Prompter *prompt.Prompter
	Sharer   *share.Sharer
	Printer  *printers.PrettyPrint
}

func (n *Share) Do(ctx context.Context) error {
	a, err := n.Service.Resolve(ctx, n.Ref)
	if err != nil {
		return err
	}
	text, err := export.TextString(a, n.Service.Now(), n.Width)
	if err != nil {
		return err
	}
	if err := n.Prompter.Confirm(fmt.Sprintf("Copy %s (%d entries) to the clipboard?", a.Name, a.TotalEntries()), true); err != nil {
		return err
	}
	res, err := n.Sharer.Copy(text)
	if err != nil {
		return err
	}
	switch res.Method {
	case share.MethodManual:
		n.Printer.Warn("Clipboard unavailable (%s), copy the text above.", res.Reason)
	default:
		n.Printer.Info("Copied %s via %s.", a.Name, res.Method)
	}
	return nil
}
