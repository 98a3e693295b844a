package memo

import (
	"context"
	"time"
)

// CoreAPI exposes basic cache metadata.
type CoreAPI interface {
	Driver() Driver
}

// GetOrComputeAPI exposes the memoizing read-or-write operation.
type GetOrComputeAPI[K comparable, V any] interface {
	GetOrCompute(key K, fn func(K) (V, error), ttl time.Duration) (V, error)
	GetOrComputeCtx(ctx context.Context, key K, fn func(context.Context, K) (V, error), ttl time.Duration) (V, error)
}

// MemoAPI is the composed application-facing interface implemented by Cache
// and SyncCache.
type MemoAPI[K comparable, V any] interface {
	CoreAPI
	GetOrComputeAPI[K, V]
}

var (
	_ MemoAPI[string, int] = (*Cache[string, int])(nil)
	_ MemoAPI[string, int] = (*SyncCache[string, int])(nil)
)
