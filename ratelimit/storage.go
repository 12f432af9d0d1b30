package ratelimit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// windowState is the persisted ledger for one action-key
type windowState struct {
	Requests []int64 `json:"requests"` // epoch milliseconds, oldest first
}

// Store persists the retained timestamps per action-key. The limiter
// recomputes from the store on every call, so a store survives restarts
// the same way the browser original survived page reloads.
type Store interface {
	Load(key string) ([]int64, error)
	Save(key string, requests []int64) error
	Delete(key string) error
}

// FileStore keeps one JSON file per action-key under dir, named
// rateLimit_<key>.json with body {"requests":[...]}
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create rate limit directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

func (s *FileStore) path(key string) string {
	// Keys are caller-controlled; keep the filename shell-safe
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '-'
	}, key)
	return filepath.Join(s.dir, fmt.Sprintf("rateLimit_%s.json", safe))
}

// Load reads the retained timestamps for key. A missing file is an empty
// ledger, not an error; a corrupt file is treated the same way so a bad
// write can never wedge submissions permanently.
func (s *FileStore) Load(key string) ([]int64, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rate limit state: %w", err)
	}

	var state windowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil
	}
	return state.Requests, nil
}

// Save writes the retained timestamps for key
func (s *FileStore) Save(key string, requests []int64) error {
	data, err := json.Marshal(windowState{Requests: requests})
	if err != nil {
		return fmt.Errorf("failed to encode rate limit state: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write rate limit state: %w", err)
	}
	return nil
}

// Delete wipes the ledger for key
func (s *FileStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete rate limit state: %w", err)
	}
	return nil
}

// MemoryStore is a Store backed by a map, for tests and for deployments
// that do not care about limiter state surviving restarts
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string][]int64)}
}

var _ Store = (*MemoryStore)(nil)

// Load returns the retained timestamps for key
func (s *MemoryStore) Load(key string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	requests := s.windows[key]
	out := make([]int64, len(requests))
	copy(out, requests)
	return out, nil
}

// Save stores the retained timestamps for key
func (s *MemoryStore) Save(key string, requests []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]int64, len(requests))
	copy(stored, requests)
	s.windows[key] = stored
	return nil
}

// Delete wipes the ledger for key
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}
