package memo

import "time"

// Entry is one memoized computation: a value and the instant it goes stale.
// Entries are immutable; a stale entry is replaced by saving a new one.
type Entry[V any] struct {
	value     V
	expiresAt time.Time
}

// NewEntry builds an entry holding value until expiresAt.
func NewEntry[V any](value V, expiresAt time.Time) Entry[V] {
	return Entry[V]{value: value, expiresAt: expiresAt}
}

// Value returns the memoized result.
func (e Entry[V]) Value() V {
	return e.value
}

// ExpiresAt returns the instant after which the entry is stale.
func (e Entry[V]) ExpiresAt() time.Time {
	return e.expiresAt
}

// Expired reports whether the entry is stale at now.
// The boundary instant counts as expired: now >= expiresAt.
func (e Entry[V]) Expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}
