package ratelimiter

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	m := NewMemory(MaxRequests, WindowLength)
	m.now = clock.Now

	return m, clock
}

func TestMemoryLimitsAfterMaxIncrements(t *testing.T) {
	m, _ := newTestMemory()

	for i := range MaxRequests {
		if m.IsLimited("1") {
			t.Fatalf("limited too early after %d increments", i)
		}
		m.Increment("1")
	}

	if !m.IsLimited("1") {
		t.Fatalf("expected identity to be limited after %d increments", MaxRequests)
	}

	if m.IsLimited("2") {
		t.Fatalf("expected other identity to remain unlimited")
	}
}

func TestMemoryWindowExpires(t *testing.T) {
	m, clock := newTestMemory()

	for range MaxRequests {
		m.Increment("1")
	}

	clock.Advance(WindowLength)
	if !m.IsLimited("1") {
		t.Fatalf("window must still hold at its exact expiry")
	}

	clock.Advance(time.Second)
	if m.IsLimited("1") {
		t.Fatalf("expected limit to lift after the window expired")
	}

	m.Increment("1")
	if got := m.windows["1"].count; got != 1 {
		t.Fatalf("expected a fresh window with count 1, got %d", got)
	}
}

func TestMemoryWindowIsNotRolling(t *testing.T) {
	m, clock := newTestMemory()

	m.Increment("1")
	clock.Advance(50 * time.Second)
	m.Increment("1")

	if got := m.windows["1"].expiresAt; !got.Equal(clock.Now().Add(-50 * time.Second).Add(WindowLength)) {
		t.Fatalf("expected expiry to stay anchored at the first increment, got %v", got)
	}
}

func TestMemoryAllow(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	for i := range MaxRequests {
		ok, err := m.Allow(ctx, "1")
		if err != nil || !ok {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}

	ok, _ := m.Allow(ctx, "1")
	if ok {
		t.Fatalf("expected request beyond the limit to be rejected")
	}

	if got := m.windows["1"].count; got != MaxRequests {
		t.Fatalf("rejected requests must not count, got %d", got)
	}
}

func TestMemoryAllowConcurrent(t *testing.T) {
	m, _ := newTestMemory()
	ctx := context.Background()

	var allowed atomic.Int64
	var wg sync.WaitGroup

	for range 50 {
		wg.Go(func() {
			if ok, _ := m.Allow(ctx, "1"); ok {
				allowed.Add(1)
			}
		})
	}
	wg.Wait()

	if got := allowed.Load(); got != MaxRequests {
		t.Fatalf("expected exactly %d allowed requests, got %d", MaxRequests, got)
	}
}

func TestMemoryEvictsExpiredWindows(t *testing.T) {
	m, clock := newTestMemory()

	for i := range sweepThreshold {
		m.Increment(strconv.Itoa(i))
	}

	clock.Advance(2 * WindowLength)
	m.Increment("fresh")

	if len(m.windows) != 1 {
		t.Fatalf("expected expired windows to be swept, have %d", len(m.windows))
	}
}
