// Package cache is a small byte-value cache with explicit TTLs and explicit
// invalidation. Write paths invalidate the keys they make stale instead of
// waiting for expiry, so a fresh quiz submission is never served a stale
// dashboard.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Key builders shared by the write path (invalidation) and the read path.

func DashboardKey(userID string) string { return "dashboard:" + userID }

const LeaderboardKey = "leaderboard"
