package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/commands/options"
	"tableflip.dev/grid/pkg/runner/share"
	"tableflip.dev/grid/pkg/runner/transfer"
	"tableflip.dev/grid/pkg/runner/undo"
	sharer "tableflip.dev/grid/pkg/share"
)

func addUndo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Restore the last deleted aspect, entry or replaced collection.",
		Example: `
grid delete health --yes
grid undo
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := undo.Undo{
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	io := &options.ImportOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a GrowthGrid JSON export.",
		Example: `
grid import GrowthGrid-backup-2025-03-09.json
grid import backup.json --strategy=replace --yes
cat backup.json | grid import -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := transfer.Import{
					File:     args[0],
					Strategy: io.Strategy,
					Service:  s,
					Prompter: prompter(co.Yes),
					Printer:  printer(cmd),
					Stdin:    cmd.InOrStdin(),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddImportArgs(cmd, io)
	options.AddConfirmArg(cmd, co)

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	eo := &options.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [aspect]",
		Short: "Export one aspect as a text report, or everything as a JSON backup.",
		Example: `
grid export > backup.json
grid export -f .
grid export health -f ~/Downloads
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := transfer.Export{
					Ref:     strings.Join(args, " "),
					File:    eo.File,
					Width:   eo.Width,
					Out:     cmd.OutOrStdout(),
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddExportArgs(cmd, eo)

	topLevel.AddCommand(cmd)
}

func addShare(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}
	var width int

	cmd := &cobra.Command{
		Use:   "share <aspect>",
		Short: "Copy an aspect's text report to the clipboard.",
		Example: `
grid share health
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := share.Share{
					Ref:      strings.Join(args, " "),
					Width:    width,
					Service:  s,
					Prompter: prompter(co.Yes),
					Sharer:   sharer.New(cmd.OutOrStdout()),
					Printer:  printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddConfirmArg(cmd, co)
	options.AddWidthArg(cmd, &width)

	topLevel.AddCommand(cmd)
}
