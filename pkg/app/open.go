package app

import (
	"go.uber.org/zap"

	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/logging"
	"tableflip.dev/grid/pkg/schedule"
	"tableflip.dev/grid/pkg/store"
	"tableflip.dev/grid/pkg/timeutil"
	"tableflip.dev/grid/pkg/undo"
)

// Open wires a Service from cfg: the diskv store, the file channel and an
// undo buffer sized by the configured window. A nil cfg loads the config
// from disk and the environment. Close the returned Service when done.
func Open(cfg *store.FileConfig) (*Service, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		log = logging.Nop()
	}

	p, err := store.Load(cfg, store.WithLogger(log.Named("store")))
	if err != nil {
		return nil, err
	}

	var ch broadcast.Channel
	fc, err := broadcast.NewFileChannel(p.BasePath(),
		broadcast.WithRetention(cfg.ChannelRetention),
		broadcast.WithLogger(log.Named("channel")),
	)
	if err != nil {
		log.Warn("sync channel unavailable, other processes will not be notified", zap.Error(err))
		ch = broadcast.Nop{}
	} else {
		ch = fc
	}

	clock := schedule.Real{}
	return &Service{
		Persistence: p,
		Channel:     ch,
		Buffer:      undo.New(cfg.UndoWindow, clock, p, log.Named("undo")),
		Clock:       clock,
		FocusDays:   timeutil.WindowDays(cfg.FocusWindow),
		Log:         log,
	}, nil
}

// Close releases the channel and flushes the logger.
func (s *Service) Close() error {
	if s.Log != nil {
		_ = s.Log.Sync()
	}
	if s.Channel == nil {
		return nil
	}
	return s.Channel.Close()
}
