package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Set TWINTREE_TEST_REDIS=host:port to run against a live server.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TWINTREE_TEST_REDIS")
	if addr == "" {
		t.Skip("TWINTREE_TEST_REDIS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "twintree-test:" + uuid.NewString() + ":"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "report:x"); err != nil || hit {
		t.Fatalf("Get on empty = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "report:x", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "report:x")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "report:x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "report:x"); hit {
		t.Error("entry present after Delete")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
}
