package app

import (
	"log/slog"

	"quicky/internal/infra"
	"quicky/internal/infra/storage"
)

// Bootstrap orchestrates the startup sequence: configuration, logging, and
// the optional attempt journal.
type Bootstrap struct {
	Config  *infra.Config
	Journal *storage.Storage // nil when journaling is disabled
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, installs the logger, and opens the
// journal when enabled.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	if cfg.Journal.Enabled {
		store, err := storage.NewStorage(cfg.Journal.Path)
		if err != nil {
			return err
		}
		b.Journal = store
		slog.Debug("order journal opened")
	}

	return nil
}
