package main

import (
	"context"

	"dicomdex/internal/catalog"
	"dicomdex/internal/config"
)

const configFile = "dicomdex.yaml"

func openDB(ctx context.Context, cfg *config.ProjectConfig) (*catalog.Database, error) {
	db := catalog.New()
	if err := db.Open(ctx, cfg.Database.Path, cfg.Database.Connection); err != nil {
		return nil, err
	}
	return db, nil
}
