package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nived-m/chathaven/internal/api"
	"github.com/nived-m/chathaven/internal/config"
	"github.com/nived-m/chathaven/internal/db"
	"github.com/nived-m/chathaven/internal/docstore"
	docmemory "github.com/nived-m/chathaven/internal/docstore/memory"
	docpostgres "github.com/nived-m/chathaven/internal/docstore/postgres"
	"github.com/nived-m/chathaven/internal/observ"
	"github.com/nived-m/chathaven/internal/repository"
	"github.com/nived-m/chathaven/internal/repository/documents"
	repomemory "github.com/nived-m/chathaven/internal/repository/memory"
	repopostgres "github.com/nived-m/chathaven/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no parent deadline; requests get their own contexts
	// once the server is up.
	ctx := context.Background()

	var (
		store docstore.Store
		users repository.UserRepository
	)
	switch cfg.StoreBackend {
	case "postgres":
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()

		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		defer rdb.Close()

		store = docpostgres.New(database.Pool(), rdb, logger)
		users = repopostgres.NewUserStore(database.Pool())
	default:
		store = docmemory.New()
		users = repomemory.NewUserStore()
	}

	router := api.NewRouter(api.Deps{
		Channels:  documents.NewChannelStore(store),
		Rooms:     documents.NewRoomStore(store),
		Messages:  documents.NewMessageStore(store),
		Members:   documents.NewMembershipStore(store),
		Settings:  documents.NewSettingsStore(store),
		Users:     users,
		Store:     store,
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
	})

	logger.Info("starting chathaven",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("store_backend", cfg.StoreBackend),
	)

	return router.Run(":" + cfg.Port)
}
