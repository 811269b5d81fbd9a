package history

import (
	"fmt"
	"strings"
)

// StoreConfig selects and configures the archive backend.
type StoreConfig struct {
	Backend string // "file", "sqlite" or "postgres"
	Path    string // file path for the file/sqlite backends
	DSN     string // connection string for postgres
}

// NewStore builds the archive store for the configuration, defaulting to the
// JSON file backend.
func NewStore(cfg StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file", "json":
		if cfg.Path == "" {
			cfg.Path = ".celero/history.json"
		}
		return NewFileStore(cfg.Path)
	case "sqlite", "sqlite3":
		if cfg.Path == "" {
			cfg.Path = ".celero/history.db"
		}
		return NewSQLiteStore(cfg.Path)
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres archive requires a DSN")
		}
		return NewPostgresStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.Backend)
	}
}
