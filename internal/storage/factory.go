package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"poc-go/internal/config"
	"poc-go/internal/poc"
	"poc-go/internal/storage/migrations"
)

// NewStorageFromConfig creates a Storage implementation based on the
// storage config type. SQLite stores are migrated to the latest schema
// on open.
func NewStorageFromConfig(cfg config.StorageConfig) (poc.Storage, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite storage requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		store, err := NewSQLiteStorage(filepath.Join(cfg.DataDir, "poc.db"))
		if err != nil {
			return nil, err
		}
		if err := migrations.MigrateUp(store.DB()); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
