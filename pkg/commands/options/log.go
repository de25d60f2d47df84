package options

import (
	"github.com/spf13/cobra"
)

// LogOptions
type LogOptions struct {
	ShowID   bool
	Calendar bool
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.Flags().BoolVar(&o.ShowID, "show-id", false,
		"Show aspect and entry ids.")
	cmd.Flags().BoolVarP(&o.Calendar, "calendar", "c", false,
		"Show this month's activity calendar.")
}
