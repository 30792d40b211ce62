package storage

import (
	"go.uber.org/fx"

	"github.com/brandloom/brandloom/internal/config"
)

var Module = fx.Module("providers.storage",
	fx.Provide(NewFromConfig),
	fx.Provide(func(disk *LocalDisk) Uploader { return disk }),
)

func NewFromConfig(cfg config.Config) (*LocalDisk, error) {
	return NewLocalDisk(cfg.StorageDir, cfg.StorageBaseURL)
}
