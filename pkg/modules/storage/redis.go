package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/redis/go-redis/v9"
)

type redisBackend struct {
	options *redis.Options
	hash    string

	mu     sync.RWMutex
	client *redis.Client
}

// NewRedisBackend keeps every key as a field of the hash named table.
func NewRedisBackend(url, table string) (Backend, error) {
	if !tableName.MatchString(table) {
		return nil, ErrInvalidTable.WithDetail("table", table)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, ErrInvalidRedisURL.WithCause(err)
	}
	return &redisBackend{options: opts, hash: table}, nil
}

func (b *redisBackend) Open(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return nil
	}

	client := redis.NewClient(b.options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return ErrOpen.WithDetail("driver", driverRedis).WithCause(err)
	}
	b.client = client
	return nil
}

func (b *redisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	client, err := b.conn()
	if err != nil {
		return "", false, err
	}
	value, err := client.HGet(ctx, b.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrQuery.WithDetail("op", "get").WithCause(err)
	}
	return value, true, nil
}

func (b *redisBackend) Set(ctx context.Context, key, value string) error {
	client, err := b.conn()
	if err != nil {
		return err
	}
	if err = client.HSet(ctx, b.hash, key, value).Err(); err != nil {
		return ErrQuery.WithDetail("op", "set").WithCause(err)
	}
	return nil
}

func (b *redisBackend) Remove(ctx context.Context, key string) error {
	client, err := b.conn()
	if err != nil {
		return err
	}
	if err = client.HDel(ctx, b.hash, key).Err(); err != nil {
		return ErrQuery.WithDetail("op", "remove").WithCause(err)
	}
	return nil
}

func (b *redisBackend) Keys(ctx context.Context) ([]string, error) {
	client, err := b.conn()
	if err != nil {
		return nil, err
	}
	keys, err := client.HKeys(ctx, b.hash).Result()
	if err != nil {
		return nil, ErrQuery.WithDetail("op", "keys").WithCause(err)
	}
	slices.Sort(keys)
	return keys, nil
}

func (b *redisBackend) Clear(ctx context.Context) error {
	client, err := b.conn()
	if err != nil {
		return err
	}
	if err = client.Del(ctx, b.hash).Err(); err != nil {
		return ErrQuery.WithDetail("op", "clear").WithCause(err)
	}
	return nil
}

func (b *redisBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

func (b *redisBackend) conn() (*redis.Client, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.client == nil {
		return nil, ErrNotOpen
	}
	return b.client, nil
}
