package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/surf-forecast/internal/bootstrap"
	"github.com/yanqian/surf-forecast/internal/domain/forecast"
	"github.com/yanqian/surf-forecast/internal/domain/location"
	"github.com/yanqian/surf-forecast/internal/infra/blobstore"
	"github.com/yanqian/surf-forecast/internal/infra/config"
	"github.com/yanqian/surf-forecast/internal/infra/forecaststore"
	"github.com/yanqian/surf-forecast/internal/infra/locationrepo"
	"github.com/yanqian/surf-forecast/internal/infra/locationsync"
	"github.com/yanqian/surf-forecast/pkg/metrics"
	"github.com/yanqian/surf-forecast/pkg/util"
)

func provideForecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		DefaultDays:      cfg.Forecast.DefaultDays,
		MaxDays:          cfg.Forecast.MaxDays,
		FetchTimeout:     cfg.Forecast.FetchTimeout,
		Tolerance:        cfg.Forecast.Tolerance,
		DefaultTolerance: cfg.Forecast.DefaultTolerance,
		MapBaseURL:       cfg.Forecast.MapBaseURL,
		CacheTTL:         cfg.Cache.TTL,
		Keys: forecast.KeyLayout{
			Atmospheric: cfg.Blobs.Keys.Atmospheric,
			Oceanic:     cfg.Blobs.Keys.Oceanic,
			Beach:       cfg.Blobs.Keys.Beach,
		},
	}
}

func provideLocationRepository(cfg *config.Config, logger *slog.Logger) location.Repository {
	if dsn := strings.TrimSpace(cfg.Locations.Postgres.DSN); dsn != "" {
		if pool, err := openPostgres(cfg.Locations.Postgres, logger); err == nil {
			logger.Info("location postgres repository enabled")
			return locationrepo.NewPostgresRepository(pool)
		}
	}
	if path := strings.TrimSpace(cfg.Locations.SQLitePath); path != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		repo, err := locationrepo.OpenSQLite(ctx, path)
		if err == nil {
			logger.Info("location sqlite repository enabled", "path", path)
			return repo
		}
		logger.Error("failed to open sqlite location store, using seed file", "path", path, "error", err)
	}
	records, err := locationrepo.LoadSeedFile(cfg.Locations.SeedFile)
	if err != nil {
		logger.Error("failed to load location seed file, starting with an empty index", "path", cfg.Locations.SeedFile, "error", err)
		return locationrepo.NewMemoryRepository()
	}
	logger.Info("location memory repository enabled", "seed", cfg.Locations.SeedFile, "count", len(records))
	return locationrepo.NewMemoryRepository(records...)
}

func openPostgres(cfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("invalid postgres dsn, falling back", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, falling back", "error", err)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, falling back", "error", err)
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func provideBlobRepository(cfg *config.Config, logger *slog.Logger) forecast.BlobRepository {
	if cfg.Blobs.S3Configured() {
		s3 := cfg.Blobs.S3
		storage, err := blobstore.NewS3Storage(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
		if err == nil {
			logger.Info("s3 blob storage enabled", "bucket", s3.Bucket)
			return storage
		}
		logger.Error("failed to initialize s3 blob storage, falling back", "error", err)
	}
	if dir := strings.TrimSpace(cfg.Blobs.LocalDir); dir != "" {
		storage, err := blobstore.NewDirStorage(dir)
		if err == nil {
			logger.Info("local blob directory enabled", "dir", dir)
			return storage
		}
		logger.Error("invalid local blob directory, falling back", "dir", dir, "error", err)
	}
	logger.Warn("no blob storage configured, using empty memory storage")
	return blobstore.NewMemoryStorage()
}

func provideWindowReader(blobs forecast.BlobRepository, fcCfg forecast.Config, m *metrics.Metrics, logger *slog.Logger) forecast.WindowReader {
	return forecast.NewReader(blobs, fcCfg.Keys, fcCfg.FetchTimeout, m, logger)
}

func provideForecastCache(cfg *config.Config, logger *slog.Logger) forecast.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return forecaststore.NewMemoryStore(util.Clock())
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return forecaststore.NewMemoryStore(util.Clock())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return forecaststore.NewMemoryStore(util.Clock())
	}
	logger.Info("forecast valkey cache enabled", "addr", cfg.Cache.Addr)
	return forecaststore.NewValkeyStore(client, "forecast")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideForecastService(fcCfg forecast.Config, locations location.Service, reader forecast.WindowReader, cache forecast.Cache, m *metrics.Metrics, logger *slog.Logger) forecast.Service {
	var opts []forecast.Option
	if cache != nil {
		opts = append(opts, forecast.WithCache(cache))
	}
	return forecast.NewService(fcCfg, locations, reader, m, logger, opts...)
}

func provideRefreshers(cfg *config.Config, locations location.Service, logger *slog.Logger) []bootstrap.Runner {
	runners := []bootstrap.Runner{
		locationsync.NewPeriodicTrigger(locations, cfg.Locations.RefreshInterval, util.Clock(), logger),
	}
	if kafka := cfg.Locations.Kafka; kafka.Enabled {
		logger.Info("location change feed enabled", "topic", kafka.Topic)
		runners = append(runners, locationsync.NewKafkaTrigger(kafka.Brokers, kafka.Topic, kafka.GroupID, locations, logger))
	}
	return runners
}
