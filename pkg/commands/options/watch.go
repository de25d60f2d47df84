package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/timeutil"
)

// WatchOptions
type WatchOptions struct {
	QuoteEvery string
}

func AddWatchArgs(cmd *cobra.Command, o *WatchOptions) {
	cmd.Flags().StringVarP(&o.QuoteEvery, "quotes", "q", "",
		`Rotate a motivational quote, example: --quotes=30s. Empty disables.`)
}

func (o *WatchOptions) GetQuoteEvery() (time.Duration, error) {
	if o.QuoteEvery == "" {
		return 0, nil
	}
	d, _, err := timeutil.ParseWindow(o.QuoteEvery)
	return d, err
}
