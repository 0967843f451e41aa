package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// ListingCache holds "all listings" results keyed by a generation number.
// Invalidate moves to a new generation, so a read that started before a
// mutation can only ever fill the generation it read, never the current one.
type ListingCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64) ([]models.JobListing, bool, error)
	Set(ctx context.Context, version int64, listings []models.JobListing) error
	Invalidate(ctx context.Context) error
}

const (
	listingVersionKey = "jobs:version"
	listingCacheKey   = "jobs:all"
)

type RedisListingCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func listingKey(version int64) string { return fmt.Sprintf("%s:%d", listingCacheKey, version) }

func (c *RedisListingCache) Version(ctx context.Context) (int64, error) {
	v, err := c.Client.Get(ctx, listingVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisListingCache) Get(ctx context.Context, version int64) ([]models.JobListing, bool, error) {
	data, err := c.Client.Get(ctx, listingKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var listings []models.JobListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, false, err
	}
	return listings, true, nil
}

func (c *RedisListingCache) Set(ctx context.Context, version int64, listings []models.JobListing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, listingKey(version), data, c.TTL).Err()
}

// Invalidate bumps the generation; entries of older generations expire on their own.
func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	return c.Client.Incr(ctx, listingVersionKey).Err()
}
