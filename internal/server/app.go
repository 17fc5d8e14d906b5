// Package server assembles the OttoCollect backend: it opens the database,
// applies migrations, connects object storage, builds the services and runs
// the HTTP and gRPC servers together with the background sweepers until a
// signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/juju/clock"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/config"
	"github.com/ottocollect/ottocollect/internal/server/realtime"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/ottocollect/ottocollect/internal/server/services"
	"github.com/ottocollect/ottocollect/internal/server/storage"
	"github.com/ottocollect/ottocollect/internal/server/viewstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/ottocollect/ottocollect/internal/server/grpc"
	hs "github.com/ottocollect/ottocollect/internal/server/http"
)

const (
	viewStateSweepInterval = time.Minute
	sessionPurgeInterval   = time.Hour
	dbPingTimeout          = 3 * time.Second
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	clock      clock.Clock
	users      *services.UserService
	viewState  *viewstate.Store
	httpServer *hs.Server
	grpcServer *gs.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.Log)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	bucket, err := storage.NewBucket(ctx, storage.Settings{
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
		PublicURL:    c.StoragePublicURL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Info(ctx, "storage ready", "bucket", bucket.Name())

	clk := clock.WallClock
	hub := realtime.NewHub()

	notifications := services.NewNotificationService(db, m, hub, logger)
	points := services.NewPointsService(db, m, notifications, logger)
	catalog := services.NewCatalogService(db, m, logger)
	market := services.NewMarketplaceService(db, m, points, logger)
	svc := hs.Services{
		Users:         services.NewUserService(db, m, c, clk, logger),
		Catalog:       catalog,
		Banknotes:     services.NewBanknoteService(db, m, catalog, logger),
		Collection:    services.NewCollectionService(db, m, catalog, market, points, logger),
		Marketplace:   market,
		Community:     services.NewCommunityService(db, m, points, notifications, logger),
		Messages:      services.NewMessageService(db, m, hub, notifications, logger),
		Notifications: notifications,
		Follows:       services.NewFollowService(db, m, notifications, logger),
		Points:        points,
		Images:        services.NewImageService(db, m, bucket, logger),
	}

	views := viewstate.NewStore(clk, viewstate.Windows{
		Filters:    c.FiltersFreshness,
		Scroll:     c.ScrollFreshness,
		ReturnFlag: c.ReturnFlagFreshness,
	}, logger)

	metrics := hs.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics,
	)

	health := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		defer cancel()
		return db.PingContext(ctx)
	}

	router := hs.NewRouter(svc, hs.Options{
		SecretKey:          []byte(c.SecretKey),
		CORSOrigins:        c.CORSOrigins,
		RateLimitPerSecond: c.RateLimitPerSecond,
		SiteURL:            c.SiteURL,
		RevealPageSize:     c.RevealPageSize,
		RevealDelay:        c.RevealDelay,
		Clock:              clk,
		ViewState:          views,
		Socket:             realtime.NewSocket(hub, allowOrigin(c.CORSOrigins), logger),
		Metrics:            metrics,
		Gatherer:           registry,
		Health:             health,
	}, logger)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		clock:      clk,
		users:      svc.Users,
		viewState:  views,
		httpServer: hs.NewServer(c.HTTPAddr, router, logger),
		grpcServer: gs.NewServer(c.GRPCAddr, health, clk, logger),
	}, nil
}

// allowOrigin matches websocket origins against the CORS list. An empty list
// allows every origin, like the CORS middleware does.
func allowOrigin(origins []string) func(string) bool {
	if len(origins) == 0 {
		return nil
	}
	return func(origin string) bool {
		return slices.Contains(origins, origin)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// purgeSessions drops expired refresh tokens every interval.
func (app *App) purgeSessions(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.clock.After(sessionPurgeInterval):
			n, err := app.users.PurgeExpiredSessions(ctx)
			if err != nil {
				app.logger.Warn(ctx, "purging expired sessions failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired sessions", "count", n)
			}
		}
	}
}

// Run blocks until a signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.httpServer.Run(ctx) })
	g.Go(func() error { return app.grpcServer.Run(ctx) })
	g.Go(func() error { return app.viewState.Run(ctx, viewStateSweepInterval) })
	g.Go(func() error { return app.purgeSessions(ctx) })

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "app stopped with error", "error", err)
		return err
	}
	app.logger.Info(ctx, "App stopped")
	return nil
}
