// Package settings reads and writes the user preferences.
package settings

import (
	"context"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/printers"
)

type User struct {
	// Name is set when non-empty, otherwise the current name is printed.
	Name string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *User) Do(_ context.Context) error {
	if n.Name == "" {
		name, err := n.Service.UserName()
		if err != nil {
			return err
		}
		if name == "" {
			n.Printer.Info("No name set. Use grid user <name>.")
			return nil
		}
		n.Printer.Info("%s", name)
		return nil
	}
	name, err := n.Service.SetUserName(n.Name)
	if err != nil {
		return err
	}
	n.Printer.Info("Hello, %s.", name)
	return nil
}

type Theme struct {
	// Theme is set when non-empty, otherwise the current theme is printed.
	Theme string

	Service *app.Service
	Printer *printers.PrettyPrint
}

func (n *Theme) Do(_ context.Context) error {
	if n.Theme == "" {
		theme, err := n.Service.Theme()
		if err != nil {
			return err
		}
		n.Printer.Info("%s", theme)
		return nil
	}
	theme, err := n.Service.SetTheme(n.Theme)
	if err != nil {
		return err
	}
	n.Printer.Info("Theme set to %s.", theme)
	return nil
}
