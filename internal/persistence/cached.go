package persistence

import (
	"context"
	"time"

	"github.com/riteshk28/Lighthouse/pkg/logger"
	"github.com/riteshk28/Lighthouse/pkg/redis"
)

// CachedGateway is a Redis read-through, write-through cache in front of
// another gateway. Cache errors are logged and never fail a call.
type CachedGateway struct {
	next   Gateway
	client *redis.Client
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedGateway wraps next. Close also closes client.
func NewCachedGateway(next Gateway, client *redis.Client, ttl time.Duration, log *logger.Logger) *CachedGateway {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedGateway{
		next:   next,
		client: client,
		cache:  redis.NewCache(client, "scorecard"),
		ttl:    ttl,
		logger: log,
	}
}

// Load serves from Redis when possible.
func (g *CachedGateway) Load(ctx context.Context) ([]byte, error) {
	data, found, err := g.cache.GetBytes(ctx, redis.StateKey())
	if err != nil {
		g.logger.WithError(err).Warn("State cache read failed")
	}
	if found {
		return data, nil
	}

	data, err = g.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := g.cache.SetBytes(ctx, redis.StateKey(), data, g.ttl); err != nil {
		g.logger.WithError(err).Warn("State cache fill failed")
	}
	return data, nil
}

// Save writes to the backend, then refreshes the cache.
func (g *CachedGateway) Save(ctx context.Context, blob []byte) error {
	if err := g.next.Save(ctx, blob); err != nil {
		if delErr := g.cache.Delete(ctx, redis.StateKey()); delErr != nil {
			g.logger.WithError(delErr).Warn("State cache invalidation failed")
		}
		return err
	}

	if err := g.cache.SetBytes(ctx, redis.StateKey(), blob, g.ttl); err != nil {
		g.logger.WithError(err).Warn("State cache update failed")
	}
	return nil
}

// Unwrap returns the cached gateway.
func (g *CachedGateway) Unwrap() Gateway {
	return g.next
}

// Close closes the backend and the Redis client.
func (g *CachedGateway) Close() error {
	err := g.next.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}
