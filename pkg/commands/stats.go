package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/commands/options"
	"tableflip.dev/grid/pkg/runner/quote"
	"tableflip.dev/grid/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your streaks and totals.",
		Example: `
grid stats
grid stats -o yaml
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := stats.Stats{
					Output:  fo.Format(output),
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddFormatArg(cmd, fo)

	topLevel.AddCommand(cmd)
}

func addSearch(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}
	var query string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search aspect names and entry text.",
		Example: `
grid search 5km
`,
		Args: func(cmd *cobra.Command, args []string) error {
			query = strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("requires a search query")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := stats.Search{
					Query:   query,
					Output:  fo.Format(output),
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	options.AddFormatArg(cmd, fo)

	topLevel.AddCommand(cmd)
}

func addFocus(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Pin the aspect you were most active in this week.",
		Example: `
grid focus
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := stats.Focus{
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addQuote(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print a motivational quote.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := quote.Quote{Printer: printer(cmd)}
			return output.HandleError(r.Do(context.Background()))
		},
	}

	topLevel.AddCommand(cmd)
}
