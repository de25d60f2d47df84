// Package entries runs the entry commands.
package entries

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/prompt"
	"tableflip.dev/grid/pkg/runner/aspects"
)

type Add struct {
	// Ref names the aspect; empty asks for one.
	Ref  string
	Text string

	Service  *app.Service
	Prompter *prompt.Prompter
	Printer  *printers.PrettyPrint
}

func (n *Add) Do(ctx context.Context) error {
	id, name, err := pick(ctx, n.Service, n.Prompter, n.Ref)
	if err != nil {
		return err
	}
	if strings.TrimSpace(n.Text) == "" {
		n.Text, err = n.Prompter.Text("Entry", func(s string) error {
			if strings.TrimSpace(s) == "" {
				return app.ErrEmptyText
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	e, err := n.Service.AddEntry(ctx, id, n.Text)
	if err != nil {
		return err
	}
	n.Printer.Info("Logged to %s at %s.", name, e.Time)
	return nil
}

type Delete struct {
	Ref     string
	EntryID string
	// Date narrows the search to one day bucket.
	Date string

	Service  *app.Service
	Prompter *prompt.Prompter
	Printer  *printers.PrettyPrint
}

func (n *Delete) Do(ctx context.Context) error {
	a, err := n.Service.Resolve(ctx, n.Ref)
	if err != nil {
		return err
	}
	if err := n.Prompter.Confirm("Delete this entry?", false); err != nil {
		return err
	}
	e, deadline, err := n.Service.DeleteEntry(ctx, a.ID, n.Date, n.EntryID)
	if err != nil {
		return err
	}
	n.Printer.Info("Deleted %q from %s. %s", e.Text, a.Name, aspects.UndoHint(deadline, n.Service.Now()))
	return nil
}

func pick(ctx context.Context, s *app.Service, p *prompt.Prompter, ref string) (id, name string, err error) {
	if ref != "" {
		a, err := s.Resolve(ctx, ref)
		if err != nil {
			return "", "", err
		}
		return a.ID, a.Name, nil
	}
	list, err := s.Aspects(ctx)
	if err != nil {
		return "", "", err
	}
	if len(list) == 0 {
		return "", "", errors.New("no aspects yet, create one with grid add")
	}
	a, err := p.Aspect("Log to", list)
	if err != nil {
		return "", "", err
	}
	return a.ID, a.Name, nil
}
