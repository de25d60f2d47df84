package options

import (
	"github.com/spf13/cobra"
)

// ImportOptions
type ImportOptions struct {
	Strategy string
}

func AddImportArgs(cmd *cobra.Command, o *ImportOptions) {
	cmd.Flags().StringVarP(&o.Strategy, "strategy", "s", "",
		"How to apply the file: 'merge' or 'replace'. Defaults to merge when there is data, replace otherwise.")
}

// ExportOptions
type ExportOptions struct {
	File  string
	Width int
}

func AddExportArgs(cmd *cobra.Command, o *ExportOptions) {
	cmd.Flags().StringVarP(&o.File, "file", "f", "-",
		"Write to this file or directory, '-' for stdout.")
	AddWidthArg(cmd, &o.Width)
}

func AddWidthArg(cmd *cobra.Command, width *int) {
	cmd.Flags().IntVarP(width, "width", "w", 0,
		"Wrap entry text at this many columns, 0 to disable.")
}
