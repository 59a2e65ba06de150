package legacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisSlot stores the cache as one msgpack-encoded list under a redis key.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisClient dials a redis server. The connection is lazy; use Ping to
// check reachability.
func NewRedisClient(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
}

// NewRedisSlot returns a slot stored under key.
func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

// Ping tests the redis connection.
func (s *RedisSlot) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *RedisSlot) Close() error {
	return s.client.Close()
}

// Read returns the cached entries. A missing key is an empty slot.
func (s *RedisSlot) Read(ctx context.Context) ([]Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting %s: %w", s.key, err)
	}

	var entries []Entry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	return entries, nil
}

// Write replaces the slot contents with entries. The key never expires.
func (s *RedisSlot) Write(ctx context.Context, entries []Entry) error {
	data, err := msgpack.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.key, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", s.key, err)
	}
	return nil
}

// Clear deletes the key.
func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", s.key, err)
	}
	return nil
}
