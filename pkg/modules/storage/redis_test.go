package storage

import (
	"context"
	"errors"
	"testing"
)

func TestNewRedisBackend(t *testing.T) {
	t.Parallel()
	b, err := NewRedisBackend("redis://:secret@localhost:6380/2", "kv")
	if err != nil {
		t.Fatalf("NewRedisBackend failed: %v", err)
	}
	rb := b.(*redisBackend)
	if rb.options.Addr != "localhost:6380" || rb.options.DB != 2 || rb.options.Password != "secret" {
		t.Errorf("unexpected options: addr %q db %d", rb.options.Addr, rb.options.DB)
	}
	if rb.hash != "kv" {
		t.Errorf("hash = %q, want kv", rb.hash)
	}
}

func TestNewRedisBackend_Errors(t *testing.T) {
	t.Parallel()
	if _, err := NewRedisBackend("http://localhost", "kv"); !errors.Is(err, ErrInvalidRedisURL) {
		t.Errorf("expected ErrInvalidRedisURL, got %v", err)
	}
	if _, err := NewRedisBackend("redis://localhost:6379", "bad-name"); !errors.Is(err, ErrInvalidTable) {
		t.Errorf("expected ErrInvalidTable, got %v", err)
	}
}

func TestRedisBackend_NotOpen(t *testing.T) {
	t.Parallel()
	b, _ := NewRedisBackend("redis://localhost:6379", "kv")
	ctx := context.Background()
	if err := b.Set(ctx, "k", "v"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if _, err := b.Keys(ctx); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close on unopened backend should be a no-op, got %v", err)
	}
}
