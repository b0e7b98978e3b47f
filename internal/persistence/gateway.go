// Package persistence stores the scorecard state blob in one of several
// backends and opens the one selected by configuration.
package persistence

import (
	"context"
	"fmt"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/pkg/config"
	"github.com/riteshk28/Lighthouse/pkg/database"
	"github.com/riteshk28/Lighthouse/pkg/httputil"
	"github.com/riteshk28/Lighthouse/pkg/logger"
	"github.com/riteshk28/Lighthouse/pkg/redis"
)

// Gateway loads and saves the single scorecard blob.
type Gateway = contracts.StateRepository

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = contracts.ErrNotFound

// StateObject is the object name of the blob in file, s3 and gcs backends.
const StateObject = "scorecard-state.json"

// Open builds the gateway selected by STORE_BACKEND, wrapped in the Redis
// read-through cache when Redis is enabled.
// ⭐ SSOT: persistence backends are chosen only here
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Gateway, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("persistence")

	if !cfg.Redis.Enabled {
		gw, err := openBackend(ctx, cfg, nil, log)
		if err != nil {
			return nil, err
		}
		log.WithField("backend", cfg.Store.Backend).Info("Persistence gateway ready")
		return gw, nil
	}

	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gw, err := openBackend(ctx, cfg, client, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"backend": cfg.Store.Backend,
		"ttl":     cfg.Store.CacheTTL.String(),
	}).Info("Persistence gateway ready with Redis cache")
	return NewCachedGateway(gw, client, cfg.Store.CacheTTL, log), nil
}

func openBackend(ctx context.Context, cfg *config.Config, rdb *redis.Client, log *logger.Logger) (Gateway, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.MigrateOnStart {
			status, err := db.Migrate(true)
			if err != nil {
				db.Close()
				return nil, err
			}
			log.WithFields(map[string]interface{}{
				"version": status.Version,
				"changed": status.Changed,
			}).Info("Database schema ready")
		}
		return NewPostgresGateway(db.Pool, db.Close), nil

	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.Store.SQLitePath)

	case config.BackendMySQL:
		return OpenMySQL(ctx, cfg.Store.MySQLDSN)

	case config.BackendFile, config.BackendS3, config.BackendGCS:
		store, err := OpenObjectStore(ctx, cfg, cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		return NewBlobGateway(store, cfg.Store.Prefix), nil

	case config.BackendRemote:
		client := httputil.New(cfg, log)
		if rdb.Enabled() {
			// saves to the peer are throttled across every instance
			client = client.WithRateLimiter(
				redis.NewRateLimiter(rdb, "remote"),
				redis.WriteRateLimit(cfg.Store.RemoteURL, cfg.API.SaveRateLimit, cfg.API.SaveRateBurst),
			)
		}
		return NewRemoteGateway(client, cfg.Store.RemoteURL), nil

	case config.BackendMemory:
		return NewMemoryGateway(), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// OpenExportSink returns where rendered exports are written: the blob
// bucket under <prefix>/exports for s3 and gcs, EXPORT_DIR otherwise.
func OpenExportSink(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.Store.Backend {
	case config.BackendS3, config.BackendGCS:
		store, err := OpenObjectStore(ctx, cfg, "")
		if err != nil {
			return nil, err
		}
		return WithPrefix(store, joinKey(cfg.Store.Prefix, "exports")), nil
	default:
		return NewLocalStorage(cfg.Export.Dir), nil
	}
}

// OpenObjectStore opens the object store of a blob backend.
// Non-blob backends fall back to a local directory at dir.
func OpenObjectStore(ctx context.Context, cfg *config.Config, dir string) (ObjectStore, error) {
	switch cfg.Store.Backend {
	case config.BackendS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Store.Bucket,
			Region:    cfg.Store.S3Region,
			Endpoint:  cfg.Store.S3Endpoint,
			AccessKey: cfg.Store.S3AccessKey,
			SecretKey: cfg.Store.S3SecretKey,
		})
	case config.BackendGCS:
		return NewGCSStorage(ctx, cfg.Store.Bucket)
	default:
		return NewLocalStorage(dir), nil
	}
}

// Recorder returns the export history of gw, looking through cache
// wrappers. Only the postgres backend keeps one.
func Recorder(gw Gateway) (contracts.ExportRecorder, bool) {
	for gw != nil {
		if r, ok := gw.(contracts.ExportRecorder); ok {
			return r, true
		}
		u, ok := gw.(interface{ Unwrap() Gateway })
		if !ok {
			return nil, false
		}
		gw = u.Unwrap()
	}
	return nil, false
}
