package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/commands/options"
	"tableflip.dev/grid/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	lo := &options.LogOptions{}

	cmd := &cobra.Command{
		Use:   "watch [aspect]",
		Short: "Keep a live view that follows changes made by other grid commands.",
		Example: `
grid watch
grid watch health --quotes=30s
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			every, err := wo.GetQuoteEvery()
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				pp := printer(cmd)
				pp.ShowID = lo.ShowID
				r := watch.Watch{
					Ref:        strings.Join(args, " "),
					QuoteEvery: every,
					Service:    s,
					Printer:    pp,
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddLogArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}
