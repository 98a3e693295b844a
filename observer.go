package memo

import (
	"context"
	"time"
)

// OpGetOrCompute names the get-or-compute operation in observer events.
const OpGetOrCompute = "get_or_compute"

// Observer receives events for cache operations.
// It is called after each operation completes. hit is true when the result
// came from a stored entry rather than from the caller's compute function.
type Observer interface {
	OnMemoOp(ctx context.Context, op string, key any, hit bool, err error, dur time.Duration, driver Driver)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, op string, key any, hit bool, err error, dur time.Duration, driver Driver)

// OnMemoOp implements Observer.
func (f ObserverFunc) OnMemoOp(ctx context.Context, op string, key any, hit bool, err error, dur time.Duration, driver Driver) {
	if f == nil {
		return
	}
	f(ctx, op, key, hit, err, dur, driver)
}
