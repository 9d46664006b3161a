package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Breyner794/barber-shop/internal/barber"
	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/site"
)

const keyPrefix = "catalog:"

func siteKey(id string) string        { return keyPrefix + "site:" + id }
func barberKey(id string) string      { return keyPrefix + "barber:" + id }
func siteBarbersKey(id string) string { return keyPrefix + "site-barbers:" + id }
func offeringKey(id string) string    { return keyPrefix + "offering:" + id }

// CachedStore is a read-through Redis cache in front of another Store.
// Redis failures degrade to the wrapped store. NotFound is not cached.
type CachedStore struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl}
}

// cached returns the decoded entry at key, or calls load and stores its result.
func cached[T any](ctx context.Context, c *CachedStore, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "catalog cache read failed", slog.String("key", key), slog.Any("err", err))
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if b, err := json.Marshal(v); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", slog.String("key", key), slog.Any("err", err))
		}
	}
	return v, nil
}

func (c *CachedStore) GetSite(ctx context.Context, id string) (*site.Site, error) {
	return cached(ctx, c, siteKey(id), func() (*site.Site, error) { return c.next.GetSite(ctx, id) })
}

func (c *CachedStore) GetResource(ctx context.Context, id string) (*barber.Barber, error) {
	return cached(ctx, c, barberKey(id), func() (*barber.Barber, error) { return c.next.GetResource(ctx, id) })
}

func (c *CachedStore) ListResourcesBySite(ctx context.Context, siteID string) ([]*barber.Barber, error) {
	return cached(ctx, c, siteBarbersKey(siteID), func() ([]*barber.Barber, error) {
		return c.next.ListResourcesBySite(ctx, siteID)
	})
}

func (c *CachedStore) GetService(ctx context.Context, id string) (*offering.Offering, error) {
	return cached(ctx, c, offeringKey(id), func() (*offering.Offering, error) { return c.next.GetService(ctx, id) })
}

func (c *CachedStore) forget(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", slog.Any("keys", keys), slog.Any("err", err))
	}
}

func (c *CachedStore) InvalidateSite(ctx context.Context, id string) {
	c.forget(ctx, siteKey(id), siteBarbersKey(id))
}

// InvalidateBarber drops the barber and the barber lists of every site it
// belonged to before and after the change.
func (c *CachedStore) InvalidateBarber(ctx context.Context, id string, siteIDs ...string) {
	keys := []string{barberKey(id)}
	for _, s := range siteIDs {
		if s != "" {
			keys = append(keys, siteBarbersKey(s))
		}
	}
	c.forget(ctx, keys...)
}

func (c *CachedStore) InvalidateOffering(ctx context.Context, id string) {
	c.forget(ctx, offeringKey(id))
}
