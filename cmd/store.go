package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/campusinsights/dwh-cli/internal/store"
)

// openStore connects the configured warehouse backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store database URL is required (DWH_STORE_DATABASE_URL)")
		}
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.BatchSize)
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath, cfg.Store.BatchSize)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
