package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// ErrCacheMiss is returned when the alias is not cached.
var ErrCacheMiss = errors.New("alias not found in cache")

// ResolveCache caches alias lookups by address for the SMTP hot path,
// where every RCPT command triggers a resolution.
type ResolveCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewResolveCache connects to Redis and verifies the connection.
func NewResolveCache(addr, password string, db int, ttl time.Duration) (*ResolveCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ResolveCache{rdb: rdb, ttl: ttl}, nil
}

// Get returns the cached alias for the address, or ErrCacheMiss.
func (c *ResolveCache) Get(ctx context.Context, address string) (*domain.Alias, error) {
	data, err := c.rdb.Get(ctx, aliasKey(address)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var alias domain.Alias
	if err := json.Unmarshal([]byte(data), &alias); err != nil {
		return nil, err
	}
	return &alias, nil
}

// Put stores the alias under its address.
func (c *ResolveCache) Put(ctx context.Context, alias *domain.Alias) error {
	data, err := json.Marshal(alias)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, aliasKey(alias.AliasAddress), data, c.ttl).Err()
}

// Invalidate drops the cached entry for the address. Called on delete so
// mail to a removed alias is rejected immediately.
func (c *ResolveCache) Invalidate(ctx context.Context, address string) error {
	return c.rdb.Del(ctx, aliasKey(address)).Err()
}

// Health pings the Redis server.
func (c *ResolveCache) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection pool.
func (c *ResolveCache) Close() error {
	return c.rdb.Close()
}

func aliasKey(address string) string {
	return fmt.Sprintf("alias:%s", strings.ToLower(strings.TrimSpace(address)))
}
