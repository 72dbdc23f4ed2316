package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 10 * time.Minute

// BracketCache keeps the latest stored bracket of each tournament in Redis.
// A nil *BracketCache is valid and caches nothing.
type BracketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBracketCache connects to redisURL (redis:// or rediss://) and pings it.
func NewBracketCache(ctx context.Context, redisURL string, ttl time.Duration) (*BracketCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewBracketCacheWithClient(client, ttl), nil
}

func NewBracketCacheWithClient(client *redis.Client, ttl time.Duration) *BracketCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BracketCache{client: client, ttl: ttl}
}

func Key(tournamentID int) string {
	return fmt.Sprintf("bracket:%d", tournamentID)
}

// Get returns the cached bracket, or ok=false on a miss.
func (c *BracketCache) Get(ctx context.Context, tournamentID int) (*models.StoredBracket, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, Key(tournamentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stored models.StoredBracket
	if err := json.Unmarshal(val, &stored); err != nil {
		// Битую запись просто выбрасываем.
		_ = c.client.Del(ctx, Key(tournamentID)).Err()
		return nil, false, nil
	}
	return &stored, true, nil
}

func (c *BracketCache) Set(ctx context.Context, stored *models.StoredBracket) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(stored.TournamentID), data, c.ttl).Err()
}

func (c *BracketCache) Invalidate(ctx context.Context, tournamentID int) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, Key(tournamentID)).Err()
}

func (c *BracketCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
