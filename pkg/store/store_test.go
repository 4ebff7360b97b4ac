package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseKVStore(t *testing.T, s KVStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, KeyAuth); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
	if err := s.Set(ctx, KeyAuth, "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, KeyAuth)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "true" {
		t.Fatalf("expected true, got %q", got)
	}
	if err := s.Set(ctx, KeyAuth, "false"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, KeyAuth); got != "false" {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if err := s.Delete(ctx, KeyAuth); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, KeyAuth); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := s.Get(ctx, KeyAuth); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseKVStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	redis := miniredis.RunT(t)
	s, err := NewRedisStore(redis.Addr(), "", "test:client")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	defer s.Close()
	exerciseKVStore(t, s)
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	redis := miniredis.RunT(t)
	s, err := NewRedisStore(redis.Addr(), "", "")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	defer s.Close()
	if err := s.Set(context.Background(), KeyAutoSavedAsset, `{"serialNumber":"1"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := redis.Get("airstream:client:autoSavedAsset")
	if err != nil {
		t.Fatalf("expected namespaced key: %v", err)
	}
	if got != `{"serialNumber":"1"}` {
		t.Fatalf("unexpected raw value %q", got)
	}
}

func TestRedisStoreRequiresAddr(t *testing.T) {
	s, err := NewRedisStore("", "", "")
	if err == nil || s != nil {
		t.Fatalf("expected constructor error for empty redis addr")
	}
}

func TestRedisStoreGetFailsWhenRedisDown(t *testing.T) {
	redis := miniredis.RunT(t)
	s, err := NewRedisStore(redis.Addr(), "", "")
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	defer s.Close()
	redis.Close()
	if _, err := s.Get(context.Background(), KeyAuth); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestRedisStoreWithSharedClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStoreWithClient(client, "shared")
	exerciseKVStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("shared client must stay open after store close: %v", err)
	}
}
