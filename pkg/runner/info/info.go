package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/grid/pkg/app"
	"tableflip.dev/grid/pkg/store"
	"tableflip.dev/grid/pkg/timeutil"
)

type Info struct {
	Config  *store.FileConfig
	Service *app.Service
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv("GRID_CONFIG_PATH"); override != "" {
		fmt.Println("GRID_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("GRID_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Println("Config.path: ", n.Config.BasePath())
	fmt.Println("Config.undoWindow: ", timeutil.FormatWindow(n.Config.UndoWindow))
	fmt.Println("Config.focusWindow: ", timeutil.FormatWindow(n.Config.FocusWindow))
	fmt.Println("Config.channelRetention: ", timeutil.FormatWindow(n.Config.ChannelRetention))
	fmt.Println("Config.logLevel: ", n.Config.LogLevel)

	if n.Service == nil {
		return fmt.Errorf("failed to open the store")
	}
	if o := n.Service.Origin(); o != "" {
		fmt.Println("Origin: ", o)
	}

	list, err := n.Service.Aspects(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Aspects:\n")
	for _, a := range list {
		fmt.Printf("  %s (%d)\n", a.Name, a.TotalEntries())
	}
	if len(list) == 0 {
		fmt.Printf("  %s\n", "no aspects")
	}
	return nil
}
