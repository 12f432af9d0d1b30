package ratelimit

import (
	"sync"
	"time"
)

// Defaults matching the submission throttle: at most 3 attempts per rolling
// minute per action-key
const (
	DefaultMaxPerWindow = 3
	DefaultWindow       = 60 * time.Second
)

// Limiter enforces an advisory sliding-window limit per action-key. Only
// timestamps inside the trailing window count; the oldest retained
// timestamp decides when a full window frees up (strict FIFO eviction).
//
// This is a UX throttle against accidental duplicate submissions, not a
// security control: it gates attempts, so a denied-then-failed submission
// has still consumed quota.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// NewLimiter creates a limiter over the given store. max <= 0 or window <= 0
// fall back to the defaults.
func NewLimiter(store Store, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMaxPerWindow
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		store:  store,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// SetClock replaces the limiter's time source. Tests use this to advance
// time deterministically.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}

// retained loads key's ledger and drops timestamps outside the window
func (l *Limiter) retained(key string, nowMillis int64) []int64 {
	requests, err := l.store.Load(key)
	if err != nil {
		// Unreadable state must not block submissions; start a fresh window
		return nil
	}

	windowMillis := l.window.Milliseconds()
	valid := requests[:0]
	for _, ts := range requests {
		if nowMillis-ts < windowMillis {
			valid = append(valid, ts)
		}
	}
	return valid
}

// CheckAndRecord admits or denies one attempt for key. On admit the attempt
// is recorded and persisted before returning. On deny nothing is recorded
// and retryAfter says how long until the oldest retained attempt leaves the
// window.
func (l *Limiter) CheckAndRecord(key string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	nowMillis := l.now().UnixMilli()
	valid := l.retained(key, nowMillis)

	if len(valid) >= l.max {
		oldest := valid[0]
		for _, ts := range valid {
			if ts < oldest {
				oldest = ts
			}
		}
		remaining := l.window.Milliseconds() - (nowMillis - oldest)
		return false, time.Duration(remaining) * time.Millisecond
	}

	valid = append(valid, nowMillis)
	if err := l.store.Save(key, valid); err != nil {
		// Persisting is best effort; the attempt is still admitted
		return true, 0
	}
	return true, 0
}

// RemainingQuota reports how many attempts key has left in the current
// window without recording anything
func (l *Limiter) RemainingQuota(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	valid := l.retained(key, l.now().UnixMilli())
	remaining := l.max - len(valid)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Clear wipes the ledger for key. Administrative override and tests only;
// end users never reach this.
func (l *Limiter) Clear(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(key)
}
