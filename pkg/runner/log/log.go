// Package log prints the aspect overview or a single aspect.
package log

import (
	"context"
	"fmt"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/printers"
)

type Log struct {
	// Ref selects one aspect; empty lists them all.
	Ref      string
	Calendar bool
	JSON     bool

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Log) Do(ctx context.Context) error {
	if n.Ref == "" {
		list, err := n.Service.Aspects(ctx)
		if err != nil {
			return err
		}
		if n.JSON {
			if list == nil {
				list = []aspect.Aspect{}
			}
			return n.Printer.JSON(list)
		}
		if n.Calendar {
			n.Printer.Activity(n.Service.Now(), list...)
		}
		if name, err := n.Service.UserName(); err == nil && name != "" {
			n.Printer.Title(fmt.Sprintf("%s's aspects", name))
		}
		n.Printer.Aspects(list)
		return nil
	}

	a, err := n.Service.Resolve(ctx, n.Ref)
	if err != nil {
		return err
	}
	if n.JSON {
		return n.Printer.JSON(a)
	}
	if n.Calendar {
		n.Printer.Activity(n.Service.Now(), a)
	}
	n.Printer.Aspect(a)
	return nil
}
