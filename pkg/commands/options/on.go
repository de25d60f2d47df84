package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/grid/pkg/aspect"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Only look at one day, example: --on="2025-3-9" or --on="3/9".`)
}

// GetOn parses --on. The short form takes the year from now.
func (o *OnOptions) GetOn(now time.Time) (*time.Time, error) {
	if o.OnString == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(layoutISO, o.OnString, time.Local)
	if err != nil {
		var err2 error
		t, err2 = time.ParseInLocation(layoutISOShort, o.OnString, time.Local)
		if err2 != nil {
			return nil, err
		}
		t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	}
	return &t, nil
}

// Day is --on as a stored date string, empty when unset.
func (o *OnOptions) Day(now time.Time) (string, error) {
	on, err := o.GetOn(now)
	if err != nil || on == nil {
		return "", err
	}
	return aspect.Day(*on), nil
}
