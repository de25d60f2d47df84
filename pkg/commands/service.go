package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/printers"
	"tableflip.dev/grid/pkg/prompt"
)

// openService lets tests substitute the composition root.
var openService = func() (*app.Service, error) {
	return app.Open(nil)
}

// withService opens the store, runs fn and closes it again. Errors go
// through the --json handler.
func withService(cmd *cobra.Command, fn func(ctx context.Context, s *app.Service) error) error {
	cmd.SilenceUsage = true
	s, err := openService()
	if err != nil {
		return output.HandleError(err)
	}
	defer func() { _ = s.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return output.HandleError(fn(ctx, s))
}

func printer(cmd *cobra.Command) *printers.PrettyPrint {
	out := cmd.OutOrStdout()
	if out == nil {
		out = color.Output
	}
	return &printers.PrettyPrint{Out: out}
}

func prompter(yes bool) *prompt.Prompter {
	return prompt.New(yes)
}
