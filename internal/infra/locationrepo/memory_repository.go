package locationrepo

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/surf-forecast/internal/domain/location"
)

// MemoryRepository is an in-memory location.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[int64]location.Location
}

// NewMemoryRepository constructs a repo holding records.
func NewMemoryRepository(records ...location.Location) *MemoryRepository {
	r := &MemoryRepository{}
	r.Replace(records)
	return r
}

// Replace swaps the whole record set.
func (r *MemoryRepository) Replace(records []location.Location) {
	next := make(map[int64]location.Location, len(records))
	for _, rec := range records {
		next[rec.ID] = rec
	}
	r.mu.Lock()
	r.records = next
	r.mu.Unlock()
}

// ListAll implements location.Repository, ordered by id.
func (r *MemoryRepository) ListAll(_ context.Context) ([]location.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]location.Location, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type seedFile struct {
	Locations []location.Location `yaml:"locations"`
}

// LoadSeedFile reads a YAML document of the form `locations: [...]`.
func LoadSeedFile(path string) ([]location.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed.Locations, nil
}
