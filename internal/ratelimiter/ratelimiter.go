package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count     int
	expiresAt time.Time
}

// Memory is a fixed-window counter per identity, local to the process.
// A window starts with the first increment after the previous one expired.
type Memory struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	length      time.Duration
	now         func() time.Time
}

func NewMemory(maxRequests int, length time.Duration) *Memory {
	return &Memory{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		length:      length,
		now:         time.Now,
	}
}

func (m *Memory) IsLimited(identity string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.countLocked(identity, m.now()) >= m.maxRequests
}

func (m *Memory) Increment(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.incrementLocked(identity, m.now())
}

// Allow checks and increments under one lock, so concurrent requests from
// the same identity cannot both take the last slot.
func (m *Memory) Allow(_ context.Context, identity string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.countLocked(identity, now) >= m.maxRequests {
		return false, nil
	}

	m.incrementLocked(identity, now)

	return true, nil
}

func (m *Memory) countLocked(identity string, now time.Time) int {
	w, ok := m.windows[identity]
	if !ok || now.After(w.expiresAt) {
		return 0
	}

	return w.count
}

func (m *Memory) incrementLocked(identity string, now time.Time) {
	w, ok := m.windows[identity]
	if ok && !now.After(w.expiresAt) {
		w.count++
		return
	}

	if len(m.windows) >= sweepThreshold {
		m.evictExpiredLocked(now)
	}

	m.windows[identity] = &window{count: 1, expiresAt: now.Add(m.length)}
}

func (m *Memory) evictExpiredLocked(now time.Time) {
	for identity, w := range m.windows {
		if now.After(w.expiresAt) {
			delete(m.windows, identity)
		}
	}
}
