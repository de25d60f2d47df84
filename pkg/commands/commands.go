package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/grid/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "grid",
		Short: base.Wrap80("Track the aspects of your life and log your growth, one entry at a time."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addRename(topLevel)
	addDelete(topLevel)
	addPin(topLevel)
	addLog(topLevel)
	addList(topLevel)
	addStrike(topLevel)
	addUndo(topLevel)
	addImport(topLevel)
	addExport(topLevel)
	addShare(topLevel)
	addStats(topLevel)
	addSearch(topLevel)
	addFocus(topLevel)
	addWatch(topLevel)
	addUser(topLevel)
	addTheme(topLevel)
	addQuote(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
}
