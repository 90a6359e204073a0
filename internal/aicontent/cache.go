package aicontent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const cacheTTL = 10 * time.Minute

// ContextCache keeps completed content close to the chat layer. A miss is
// reported as ErrCacheMiss; any other error is treated as a miss by callers.
type ContextCache interface {
	Get(ctx context.Context, uploadID string) (Content, error)
	Set(ctx context.Context, content Content) error
}

// ErrCacheMiss indicates the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// RedisCache implements ContextCache on go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr string) (*RedisCache, error) {
	if addr == "" {
		return nil, errors.New("redis address required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func cacheKey(uploadID string) string {
	return "aicontent:" + uploadID
}

// Get returns the cached content for an upload.
func (c *RedisCache) Get(ctx context.Context, uploadID string) (Content, error) {
	raw, err := c.client.Get(ctx, cacheKey(uploadID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Content{}, ErrCacheMiss
		}
		return Content{}, err
	}
	var content Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return Content{}, ErrCacheMiss
	}
	return content, nil
}

// Set stores the content with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, content Content) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(content.UploadID), raw, cacheTTL).Err()
}

// Close closes the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ ContextCache = (*RedisCache)(nil)
