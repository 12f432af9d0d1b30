package ratelimit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests step through a window deterministically
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time        { return c.at }
func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestLimiter(t *testing.T) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{at: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(NewMemoryStore(), 3, 60*time.Second)
	limiter.SetClock(clock.now)
	return limiter, clock
}

func TestLimiterAdmitsUpToMax(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.CheckAndRecord("inquiry_abc")
		assert.True(t, allowed, "attempt %d should be admitted", i+1)
		clock.advance(10 * time.Second)
	}

	// t=30s: three attempts retained, window full
	allowed, retryAfter := limiter.CheckAndRecord("inquiry_abc")
	assert.False(t, allowed)
	// The oldest attempt (t=0) leaves the window at t=60s, 30s from now
	assert.Equal(t, 30*time.Second, retryAfter)
}

func TestLimiterFreesOldestSlotFirst(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	limiter.CheckAndRecord("k") // t=0
	clock.advance(10 * time.Second)
	limiter.CheckAndRecord("k") // t=10
	clock.advance(10 * time.Second)
	limiter.CheckAndRecord("k") // t=20

	// t=61: the t=0 attempt has aged out, exactly one slot is free
	clock.advance(41 * time.Second)
	allowed, _ := limiter.CheckAndRecord("k")
	assert.True(t, allowed)

	allowed, retryAfter := limiter.CheckAndRecord("k")
	assert.False(t, allowed)
	// Now the t=10 attempt is the oldest retained one
	assert.Equal(t, 9*time.Second, retryAfter)
}

func TestLimiterDenialRecordsNothing(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		limiter.CheckAndRecord("k")
	}
	allowed, _ := limiter.CheckAndRecord("k")
	require.False(t, allowed)

	// If the denial had been recorded, the window would never drain and
	// this attempt at t=61 would still be denied
	clock.advance(61 * time.Second)
	allowed, _ = limiter.CheckAndRecord("k")
	assert.True(t, allowed)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		limiter.CheckAndRecord("inquiry_session-a")
	}
	allowed, _ := limiter.CheckAndRecord("inquiry_session-a")
	require.False(t, allowed)

	allowed, _ = limiter.CheckAndRecord("inquiry_session-b")
	assert.True(t, allowed, "a full window on one key must not affect another")
}

func TestRemainingQuota(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	assert.Equal(t, 3, limiter.RemainingQuota("k"))
	limiter.CheckAndRecord("k")
	limiter.CheckAndRecord("k")
	assert.Equal(t, 1, limiter.RemainingQuota("k"))
	limiter.CheckAndRecord("k")
	assert.Equal(t, 0, limiter.RemainingQuota("k"))

	// Quota recovers as attempts age out
	clock.advance(61 * time.Second)
	assert.Equal(t, 3, limiter.RemainingQuota("k"))
}

func TestLimiterDefaults(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 0, 0)
	assert.Equal(t, DefaultMaxPerWindow, limiter.max)
	assert.Equal(t, DefaultWindow, limiter.window)
}

func TestClearResetsWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		limiter.CheckAndRecord("k")
	}
	require.NoError(t, limiter.Clear("k"))

	allowed, _ := limiter.CheckAndRecord("k")
	assert.True(t, allowed)
}

func TestFileStorePersistsAcrossLimiters(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	clock := &fakeClock{at: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}
	limiter := NewLimiter(store, 3, 60*time.Second)
	limiter.SetClock(clock.now)
	for i := 0; i < 3; i++ {
		limiter.CheckAndRecord("inquiry_abc")
	}

	// A fresh limiter over the same directory sees the full window, the
	// way a server restart would
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	limiter2 := NewLimiter(reopened, 3, 60*time.Second)
	limiter2.SetClock(clock.now)

	allowed, _ := limiter2.CheckAndRecord("inquiry_abc")
	assert.False(t, allowed)
}

func TestFileStoreLedgerFormat(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("inquiry_abc", []int64{1754042400000, 1754042410000}))

	data, err := os.ReadFile(filepath.Join(dir, "rateLimit_inquiry_abc.json"))
	require.NoError(t, err)

	var state struct {
		Requests []int64 `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(data, &state))
	assert.Equal(t, []int64{1754042400000, 1754042410000}, state.Requests)
}

func TestFileStoreMissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	// Missing file is an empty ledger
	requests, err := store.Load("never-seen")
	require.NoError(t, err)
	assert.Empty(t, requests)

	// Corrupt file must not wedge submissions
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rateLimit_bad.json"), []byte("{not json"), 0644))
	requests, err = store.Load("bad")
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("../../etc/passwd", []int64{1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rateLimit_------etc-passwd.json", entries[0].Name())
}
