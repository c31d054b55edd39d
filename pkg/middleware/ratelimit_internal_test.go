package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_SweepsIdleClientsOncePerWindow(t *testing.T) {
	clock := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return clock }

	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")
	assert.Len(t, rl.visitors, 2)

	// inside the window nothing is swept, even when entries are stale
	clock = clock.Add(5 * time.Minute)
	rl.visitors["10.0.0.1"].lastSeen = clock.Add(-time.Hour)
	rl.getLimiter("10.0.0.3")
	assert.Len(t, rl.visitors, 3)

	clock = clock.Add(6 * time.Minute)
	rl.getLimiter("10.0.0.3")
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.3")
}
