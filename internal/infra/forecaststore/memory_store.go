package forecaststore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process forecast.Cache for tests/dev. Entries are kept
// encoded, so every hit decodes a response no other caller holds.
type MemoryStore struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[string]entry
}

// NewMemoryStore constructs a store. A nil clock uses real time.
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{clock: clock, entries: make(map[string]entry)}
}

// Get implements forecast.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (forecast.Response, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return forecast.Response{}, false, nil
	}
	if s.expired(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return forecast.Response{}, false, nil
	}
	var resp forecast.Response
	if err := json.Unmarshal(e.payload, &resp); err != nil {
		return forecast.Response{}, false, err
	}
	return resp, true, nil
}

// Set implements forecast.Cache. A non-positive ttl keeps the entry until replaced.
func (s *MemoryStore) Set(_ context.Context, key string, resp forecast.Response, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = s.clock.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{payload: payload, expiresAt: exp}
	return nil
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !s.clock.Now().Before(ts)
}

var _ forecast.Cache = (*MemoryStore)(nil)
