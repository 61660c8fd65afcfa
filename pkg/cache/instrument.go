package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/twintree/pkg/observability"
)

// Instrument wraps c so that every lookup and write is reported to the
// cache hooks registered with the observability package.
func Instrument(c Cache) Cache {
	if c == nil {
		return nil
	}
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{inner: c}
}

type instrumented struct {
	inner Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, hit, nil
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error {
	return c.inner.Close()
}

// KeyType extracts the entry kind from a key built by a [Keyer]:
// "api:report:ab12..." yields "report". Keys without a kind yield "other".
func KeyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return "other"
	}
	head := key[:i]
	if j := strings.LastIndexByte(head, ':'); j >= 0 {
		head = head[j+1:]
	}
	return head
}
