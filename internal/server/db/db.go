// Package db opens the resource store named by the configuration.
package db

import (
	"fmt"

	"github.com/embedhub/embedhub/internal/store"
)

type Config struct {
	// Dialect selects the backend: "sqlite" or "memory".
	Dialect string `conf:"dialect" yaml:"dialect" json:"dialect"`
	// DSN is the sqlite data source name, a file path or :memory:.
	DSN string `conf:"dsn" yaml:"dsn" json:"dsn"`
}

func NewStore(cfg Config) (store.Store, error) {
	switch cfg.Dialect {
	case "sqlite", "sqlite3", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "embedhub.db"
		}

		return store.OpenSQLite(dsn)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("invalid dialect: %s", cfg.Dialect)
	}
}
