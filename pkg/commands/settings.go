package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/runner/info"
	"tableflip.dev/grid/pkg/runner/settings"
	"tableflip.dev/grid/pkg/store"
)

func addUser(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "user [name]",
		Short: "Show or set your display name.",
		Example: `
grid user
grid user ada lovelace
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := settings.User{
					Name:    strings.Join(args, " "),
					Service: s,
					Printer: printer(cmd),
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addTheme(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the theme preference.",
		ValidArgs: []string{"light", "dark", "system"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, s *app.Service) error {
				r := settings.Theme{
					Service: s,
					Printer: printer(cmd),
				}
				if len(args) == 1 {
					r.Theme = args[0]
				}
				return r.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the config and where aspects are stored.",
		Example: `
grid info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return output.HandleError(err)
			}
			s, err := app.Open(cfg)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = s.Close() }()
			r := info.Info{
				Config:  cfg,
				Service: s,
			}
			return output.HandleError(r.Do(context.Background()))
		},
	}

	topLevel.AddCommand(cmd)
}
