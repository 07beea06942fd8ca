package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/flicky/storefront-api/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Set(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type RedisProductCache struct {
	client    *redis.Client
	baseTTL   time.Duration
	maxJitter time.Duration
}

func NewRedisProductCache(client *redis.Client, baseTTL time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, baseTTL: baseTTL, maxJitter: baseTTL / 4}
}

func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &p, nil
}

// Set stores the product with a jittered TTL so entries written together do
// not expire together.
func (c *RedisProductCache) Set(ctx context.Context, p *model.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	ttl := c.baseTTL
	if c.maxJitter > 0 {
		ttl += time.Duration(rand.Int63n(int64(c.maxJitter)))
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisProductCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func productKey(id uuid.UUID) string {
	return "product:" + id.String()
}
