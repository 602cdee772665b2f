package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-trailblazer/internal/config"
	"backend-trailblazer/internal/db"
	"backend-trailblazer/internal/docstore"
	"backend-trailblazer/internal/logging"
	"backend-trailblazer/internal/server"
	"backend-trailblazer/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mainDepsProvider = defaultDeps
var mainRunner = func(deps mainDeps) {
	if err := newRootCmd(deps).Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	newLogger       func(level string) (*zap.Logger, error)
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	openDocStore    func(context.Context, config.Config, *pgxpool.Pool) (docstore.Store, func(), error)
	openImages      func(context.Context, config.Config) (storage.Store, error)
	migrate         func(context.Context, string) error
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, server.Backends, *zap.Logger, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		newLogger:       logging.New,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		openDocStore:    openDocStore,
		openImages:      openImages,
		migrate:         db.Migrate,
		notify:          signal.Notify,
		run:             Run,
	}
}

func newRootCmd(deps mainDeps) *cobra.Command {
	root := &cobra.Command{
		Use:           "api",
		Short:         "TrailBlazer HTTP backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return realMain(cmd.Context(), deps)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return realMain(cmd.Context(), deps)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := deps.loadConfig()
			if err := deps.migrate(cmd.Context(), cfg.PostgresURL); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "migrate: %v\n", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	return root
}

func realMain(ctx context.Context, deps mainDeps) error {
	cfg := deps.loadConfig()

	log, err := deps.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		log.Warn("postgres connection failed", zap.Error(err))
	}

	rdb := deps.connectRedis(cfg)

	docs, closeDocs, err := deps.openDocStore(ctx, cfg, pg)
	if err != nil {
		log.Error("document store unavailable", zap.String("kind", cfg.DocStore), zap.Error(err))
		return err
	}
	defer closeDocs()

	images, err := deps.openImages(ctx, cfg)
	if err != nil {
		log.Warn("object storage unavailable, keeping images in memory", zap.Error(err))
		images = storage.NewMemoryStore()
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	backends := server.Backends{DB: pg, Redis: rdb, Docs: docs, Images: images}
	if err := deps.run(ctx, cfg, backends, log, signals, nil); err != nil {
		log.Error("server exited with error", zap.Error(err))
		return err
	}
	return nil
}

var errNoPostgres = errors.New("postgres document store selected but no pool is available")

func openDocStore(ctx context.Context, cfg config.Config, pg *pgxpool.Pool) (docstore.Store, func(), error) {
	switch cfg.DocStore {
	case config.DocStoreMemory:
		return docstore.NewMemoryStore(), func() {}, nil
	case config.DocStoreFirestore:
		client, err := db.ConnectFirestore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return docstore.NewFirestoreStore(client), func() { _ = client.Close() }, nil
	default:
		if pg == nil {
			return nil, nil, errNoPostgres
		}
		return docstore.NewPostgresStore(pg), func() {}, nil
	}
}

func openImages(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.S3Bucket == "" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewS3Store(ctx, cfg)
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, b server.Backends, log *zap.Logger, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(cfg, b, log)
	defer srv.Close()

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if b.DB != nil {
		b.DB.Close()
	}
	if b.Redis != nil {
		_ = b.Redis.Close()
	}
	return nil
}
