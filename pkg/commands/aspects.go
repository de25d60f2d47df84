package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/commands/options"
	"tableflip.dev/grid/pkg/runner/aspects"
)

func addAdd(topLevel *cobra.Command) {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new aspect.",
		Example: `
grid add health
grid add "side projects"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires an aspect name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := aspects.Add{
					Name:    name,
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addRename(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "rename <aspect> <new name>",
		Short: "Rename an aspect.",
		Example: `
grid rename health "health and fitness"
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := aspects.Rename{
					Ref:     args[0],
					Name:    strings.Join(args[1:], " "),
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <aspect>",
		Aliases: []string{"rm"},
		Short:   "Delete an aspect and all of its entries.",
		Example: `
grid delete health
grid delete health --yes
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := aspects.Delete{
					Ref:      strings.Join(args, " "),
					Service:  s,
					Prompter: prompter(co.Yes),
					Printer:  printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddConfirmArg(cmd, co)

	topLevel.AddCommand(cmd)
}

func addPin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "pin <aspect>",
		Aliases: []string{"star"},
		Short:   "Pin or unpin an aspect.",
		Example: `
grid pin health
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := aspects.Pin{
					Ref:     strings.Join(args, " "),
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
