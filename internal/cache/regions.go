package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Named cache regions. Each region is an independent key prefix that can be
// cleared on its own; "clear all caches" enumerates this list rather than
// flushing the whole database.
const (
	RegionOrders    = "orders"
	RegionRepairs   = "repairs"
	RegionCustomers = "customers"
	RegionDashboard = "dashboard"
)

const keyPrefix = "ecksvc"

// Regions returns the enumerated region names
func Regions() []string {
	return []string{RegionOrders, RegionRepairs, RegionCustomers, RegionDashboard}
}

// ValidRegion reports whether name is a known region
func ValidRegion(name string) bool {
	for _, r := range Regions() {
		if r == name {
			return true
		}
	}
	return false
}

// Registry is the Redis-backed cache for listing endpoints
type Registry struct {
	client *redis.Client
}

// NewRegistry connects to Redis and verifies the connection
func NewRegistry(redisURL string) (*Registry, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Registry{client: client}, nil
}

// Close releases the Redis connection
func (r *Registry) Close() error {
	return r.client.Close()
}

func regionKey(region, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, region, key)
}

// GetJSON loads a cached value into dest. Returns false on a miss.
func (r *Registry) GetJSON(ctx context.Context, region, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, regionKey(region, key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s/%s: %w", region, key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s/%s: %w", region, key, err)
	}
	return true, nil
}

// SetJSON stores a value in a region with the given TTL
func (r *Registry) SetJSON(ctx context.Context, region, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s/%s: %w", region, key, err)
	}
	if err := r.client.Set(ctx, regionKey(region, key), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s/%s: %w", region, key, err)
	}
	return nil
}

// Clear removes every key in one region and returns how many were deleted
func (r *Registry) Clear(ctx context.Context, region string) (int64, error) {
	if !ValidRegion(region) {
		return 0, fmt.Errorf("unknown cache region %q", region)
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, region)
	var deleted int64
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n, err := r.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache clear %s: %w", region, err)
		}
		deleted += n
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan %s: %w", region, err)
	}
	return deleted, nil
}

// ClearAll clears every enumerated region and reports per-region counts
func (r *Registry) ClearAll(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Regions()))
	for _, region := range Regions() {
		n, err := r.Clear(ctx, region)
		counts[region] = n
		if err != nil {
			return counts, err
		}
	}
	return counts, nil
}
