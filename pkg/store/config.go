package store

import (
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/grid/pkg/timeutil"
)

const (
	defaultPath             = "~/.grid.db"
	defaultUndoWindow       = "8s"
	defaultFocusWindow      = "1w"
	defaultLogLevel         = "warn"
	defaultChannelRetention = "1m"
)

// Config exposes where the store lives.
type Config interface {
	BasePath() string
}

// FileConfig is the configuration read from .grid files and GRID_ env vars.
type FileConfig struct {
	Path             string        `json:"path"`
	UndoWindow       time.Duration `json:"undoWindow"`
	FocusWindow      time.Duration `json:"focusWindow"`
	ChannelRetention time.Duration `json:"channelRetention"`
	LogLevel         string        `json:"logLevel"`
}

// LoadConfig walks ./ and $GRID_CONFIG_PATH for a .grid config file and
// layers GRID_* environment variables over it.
func LoadConfig() (*FileConfig, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("undo_window", defaultUndoWindow)
	v.SetDefault("focus_window", defaultFocusWindow)
	v.SetDefault("channel_retention", defaultChannelRetention)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetConfigName(".grid") // .yaml is implicit
	v.SetEnvPrefix("GRID")
	v.AutomaticEnv()

	if override := os.Getenv("GRID_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	undo, _, err := timeutil.ParseWindow(v.GetString("undo_window"))
	if err != nil {
		return nil, err
	}
	focus, _, err := timeutil.ParseWindow(v.GetString("focus_window"))
	if err != nil {
		return nil, err
	}
	retention, _, err := timeutil.ParseWindow(v.GetString("channel_retention"))
	if err != nil {
		return nil, err
	}

	return &FileConfig{
		Path:             path,
		UndoWindow:       undo,
		FocusWindow:      focus,
		ChannelRetention: retention,
		LogLevel:         v.GetString("log_level"),
	}, nil
}

// BasePath implements Config.
func (f *FileConfig) BasePath() string {
	return f.Path
}
