package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/juju/clock"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/config"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/ottocollect/ottocollect/internal/server/services"
	"github.com/ottocollect/ottocollect/internal/server/storage"
)

// ConfigOpener connects to the database and bucket described by cfg. Logs
// go to stderr so command output stays clean.
func ConfigOpener(cfg *config.Config) Opener {
	return func(ctx context.Context) (*Deps, error) {
		log := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level))

		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}

		bucket, err := storage.NewBucket(ctx, storage.Settings{
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
			PublicURL:    cfg.StoragePublicURL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("storage init error: %w", err)
		}

		m := repomanager.NewPostgresRepositoryManager()
		catalog := services.NewCatalogService(db, m, log)

		return &Deps{
			DB:        db,
			Repos:     m,
			Users:     services.NewUserService(db, m, cfg, clock.WallClock, log),
			Banknotes: services.NewBanknoteService(db, m, catalog, log),
			Images:    services.NewImageService(db, m, bucket, log),
			PublicURL: bucket.PublicURL,
			Clock:     clock.WallClock,
			PageSize:  cfg.RevealPageSize,
			PageDelay: cfg.RevealDelay,
			Log:       log,
			Close:     db.Close,
		}, nil
	}
}
