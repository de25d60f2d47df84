package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/commands/options"
	"tableflip.dev/grid/pkg/runner/entries"
	"tableflip.dev/grid/pkg/runner/log"
)

func addLog(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "log [aspect] [text]",
		Short: "Log an entry under an aspect.",
		Long: `Log an entry under an aspect. Without arguments grid asks which
aspect to log to and what to write.`,
		Example: `
grid log health ran 5km
grid log
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := entries.Add{
					Service:  s,
					Prompter: prompter(false),
					Printer:  printer(cmd),
				}
				if len(args) > 0 {
					r.Ref = args[0]
					r.Text = strings.Join(args[1:], " ")
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command) {
	lo := &options.LogOptions{}

	cmd := &cobra.Command{
		Use:     "ls [aspect]",
		Aliases: []string{"show"},
		Short:   "Show all aspects, or one aspect with its entries.",
		Example: `
grid ls
grid ls health --show-id
grid ls --calendar
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				pp := printer(cmd)
				pp.ShowID = lo.ShowID
				r := log.Log{
					Ref:      strings.Join(args, " "),
					Calendar: lo.Calendar,
					JSON:     output.JSON,
					Service:  s,
					Printer:  pp,
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddLogArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}

func addStrike(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "strike <aspect> <entry id>",
		Short: "Delete an entry.",
		Example: `
grid ls health --show-id
grid strike health entry_1741600000000_ab12cd34ef56
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				day, err := oo.Day(s.Now())
				if err != nil {
					return err
				}
				r := entries.Delete{
					Ref:      args[0],
					EntryID:  args[1],
					Date:     day,
					Service:  s,
					Prompter: prompter(co.Yes),
					Printer:  printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddOnArgs(cmd, oo)
	options.AddConfirmArg(cmd, co)

	topLevel.AddCommand(cmd)
}
