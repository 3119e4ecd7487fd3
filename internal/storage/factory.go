package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openkart/kartcore/internal/config"
	"github.com/openkart/kartcore/internal/database"
	"github.com/openkart/kartcore/internal/storage/gormstore"
	"github.com/openkart/kartcore/internal/storage/memory"
)

// NewStore creates a best-time store based on configuration.
func NewStore(cfg config.StorageConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "postgres":
		mgr := database.NewManager(log)
		if err := mgr.Connect(); err != nil {
			return nil, fmt.Errorf("error connecting best-time database: %w", err)
		}
		return gormstore.New(mgr.DB, log), nil
	case "sqlite":
		mgr := database.NewManager(log)
		db, err := mgr.GetSqliteDB(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("error opening sqlite best-time store: %w", err)
		}
		return gormstore.New(db, log), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
