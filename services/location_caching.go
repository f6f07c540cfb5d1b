package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// LocationCache keeps per-IP geo lookups in redis so the tracker and the
// authenticator don't hammer the public geo APIs. Entries carry their fetch
// time; staleness is judged against the configured window on read.
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// GlobalLocationCache may be nil (redis not configured); callers degrade
// to fetch-always.
var GlobalLocationCache *LocationCache

// NewLocationCache connects to redis and verifies the connection.
func NewLocationCache(redisURL string, ttl time.Duration) (*LocationCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &LocationCache{client: client, ttl: ttl}, nil
}

// Get returns the cached location for an IP, or nil on miss/stale entry.
func (lc *LocationCache) Get(ctx context.Context, ip string) (*model.IPLocation, error) {
	if ip == "" {
		return nil, fmt.Errorf("ip cannot be empty")
	}

	key := fmt.Sprintf("geo:%s", ip)
	data, err := lc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		utils.TrackCacheOperation("location", "miss")
		return nil, nil
	}
	if err != nil {
		utils.TrackCacheOperation("location", "error")
		return nil, fmt.Errorf("failed to get location from cache: %v", err)
	}

	var loc model.IPLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location: %v", err)
	}

	if loc.Stale(lc.ttl) {
		utils.TrackCacheOperation("location", "stale")
		return nil, nil
	}

	utils.TrackCacheOperation("location", "hit")
	return &loc, nil
}

// Set stores a location with a TTL matching the staleness window; Stale()
// on read remains the authoritative check.
func (lc *LocationCache) Set(ctx context.Context, loc *model.IPLocation) error {
	if loc == nil || loc.IP == "" {
		return fmt.Errorf("cannot cache location without an ip")
	}

	key := fmt.Sprintf("geo:%s", loc.IP)
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %v", err)
	}

	if err := lc.client.Set(ctx, key, data, lc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache location: %v", err)
	}
	return nil
}
