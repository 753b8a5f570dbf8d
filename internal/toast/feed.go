package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultFeedCapacity bounds the in-memory toast feed
const DefaultFeedCapacity = 50

// Feed is a bounded, newest-first buffer of toasts served to the dashboard.
// When full it drops the oldest entries.
type Feed struct {
	mu       sync.RWMutex
	toasts   []Toast
	capacity int
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &Feed{capacity: capacity}
}

// Push implements Sink
func (f *Feed) Push(t Toast) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.toasts = append(f.toasts, t)
	if len(f.toasts) > f.capacity {
		f.toasts = f.toasts[len(f.toasts)-f.capacity:]
	}
}

// Recent returns up to n toasts, newest first
func (f *Feed) Recent(n int) []Toast {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if n <= 0 || n > len(f.toasts) {
		n = len(f.toasts)
	}

	out := make([]Toast, 0, n)
	for i := len(f.toasts) - 1; i >= len(f.toasts)-n; i-- {
		out = append(out, f.toasts[i])
	}
	return out
}
