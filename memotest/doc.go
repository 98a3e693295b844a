// Package memotest provides reusable contract tests for memo stores and
// get-or-compute implementations.
//
// Store implementations can run the store contract from their own tests:
//
//	func TestMyStoreContract(t *testing.T) {
//		memotest.RunStoreContract(t, mystore.New[string](), memotest.Options{})
//	}
//
// Anything exposing get-or-compute can run the behavioral contract. The
// factory receives the fake clock the contract drives:
//
//	func TestCacheContract(t *testing.T) {
//		memotest.RunGetOrComputeContract(t, func(clock memo.Clock) memotest.Target {
//			return memo.New[string, int](memo.WithClock(clock))
//		}, memotest.Options{})
//	}
package memotest
