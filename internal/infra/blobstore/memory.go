package blobstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

// MaxBlobSize caps a single raw file read into memory.
const MaxBlobSize = 32 << 20

// MemoryStorage keeps blobs in memory. Useful for tests and local dev.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

// Put stores a copy of data under key.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

// ReadBlob implements forecast.BlobRepository.
func (s *MemoryStorage) ReadBlob(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, forecast.ErrBlobNotFound)
	}
	return append([]byte(nil), data...), nil
}

var _ forecast.BlobRepository = (*MemoryStorage)(nil)
