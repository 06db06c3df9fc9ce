package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
	"github.com/yanqian/faq-chatbot/internal/infra/faqrepo"
	"github.com/yanqian/faq-chatbot/internal/infra/faqstore"
	"github.com/yanqian/faq-chatbot/internal/infra/objectstore"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		ClarificationText:  cfg.FAQ.ClarificationText,
		SimilarityMetric:   cfg.FAQ.SimilarityMetric,
		TopRecommendations: cfg.FAQ.TopRecommendations,
	}
}

func provideRepository(cfg *config.Config, logger *slog.Logger) (faq.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		repo, err := faqrepo.NewSQLiteRepository(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		logger.Info("faq sqlite repository enabled", "path", cfg.Storage.SQLite.Path)
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("sqlite close failed", "error", err)
			}
		}, nil
	case config.DriverPostgres:
		repo, err := providePostgresRepository(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
	logger.Info("using memory repository")
	return faqrepo.NewMemoryRepository(), func() {}, nil
}

func providePostgresRepository(cfg *config.Config, logger *slog.Logger) (*faqrepo.PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.Storage.Postgres.DSN))
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	repo := faqrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensure postgres schema: %w", err)
	}
	logger.Info("faq postgres repository enabled")
	return repo, nil
}

func provideQueryLog(cfg *config.Config, logger *slog.Logger) (faq.QueryLog, func()) {
	noop := func() {}
	if !cfg.Cache.Valkey.Enabled {
		return faqstore.NewMemoryStore(), noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory query log", "error", err)
		return faqstore.NewMemoryStore(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory query log", "error", err)
		return faqstore.NewMemoryStore(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory query log", "error", err)
		client.Close()
		return faqstore.NewMemoryStore(), noop
	}
	logger.Info("faq valkey query log enabled", "addr", cfg.Cache.Valkey.Addr)
	return faqstore.NewValkeyStore(client, cfg.Cache.Valkey.Prefix), client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) (faq.ObjectStorage, error) {
	snap := cfg.Snapshot
	if strings.TrimSpace(snap.Endpoint) == "" {
		logger.Debug("snapshot endpoint not set, export is disabled")
		return objectstore.NewMemoryStorage(), nil
	}
	return objectstore.NewS3Storage(snap.Endpoint, snap.AccessKey, snap.SecretKey, snap.Bucket, snap.Region, logger)
}
