package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

// DirStorage reads blobs from a local directory mirroring the bucket layout.
type DirStorage struct {
	root string
}

// NewDirStorage constructs storage rooted at dir.
func NewDirStorage(dir string) (*DirStorage, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("blob dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("blob dir %s is not a directory", dir)
	}
	return &DirStorage{root: dir}, nil
}

// ReadBlob implements forecast.BlobRepository.
func (s *DirStorage) ReadBlob(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != strings.TrimPrefix(key, "/") {
		return nil, fmt.Errorf("invalid blob key %q", key)
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, forecast.ErrBlobNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxBlobSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(data) > MaxBlobSize {
		return nil, fmt.Errorf("blob %s exceeds %d bytes", key, MaxBlobSize)
	}
	return data, nil
}

// Walk calls fn for every file under the root with its slash-separated key.
func (s *DirStorage) Walk(fn func(key string) error) error {
	return filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

var _ forecast.BlobRepository = (*DirStorage)(nil)
