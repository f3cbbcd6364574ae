package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	_, err := s.ReadBlob(ctx, "atmos/atmos1pro.json")
	require.ErrorIs(t, err, forecast.ErrBlobNotFound)

	payload := []byte(`{"dados":{}}`)
	require.NoError(t, s.Put(ctx, "atmos/atmos1pro.json", payload))
	payload[0] = 'x'

	data, err := s.ReadBlob(ctx, "atmos/atmos1pro.json")
	require.NoError(t, err)
	assert.Equal(t, `{"dados":{}}`, string(data))
}

func TestDirStorage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "oceanos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "oceanos", "praia40.json"), []byte("{}"), 0o600))

	s, err := NewDirStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	data, err := s.ReadBlob(ctx, "oceanos/praia40.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = s.ReadBlob(ctx, "oceanos/praia41.json")
	require.ErrorIs(t, err, forecast.ErrBlobNotFound)

	for _, key := range []string{"../secret.json", "oceanos/../../x", "", "oceanos//praia40.json"} {
		_, err = s.ReadBlob(ctx, key)
		require.Error(t, err, key)
		assert.NotErrorIs(t, err, forecast.ErrBlobNotFound, key)
	}

	var keys []string
	require.NoError(t, s.Walk(func(key string) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"oceanos/praia40.json"}, keys)

	_, err = NewDirStorage(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestDirStorageHonoursCancelledContext(t *testing.T) {
	s, err := NewDirStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.ReadBlob(ctx, "atmos/atmos1pro.json")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeEndpoint(t *testing.T) {
	assert.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint(" https://acct.r2.cloudflarestorage.com/bucket "))
	assert.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	assert.Equal(t, "", sanitizeEndpoint(""))
}

func TestNewS3StorageBuildsClient(t *testing.T) {
	s, err := NewS3Storage("http://localhost:9000", "key", "secret", "forecasts", "us-east-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "forecasts", s.bucket)
	assert.False(t, s.client.EndpointURL().Scheme == "https")
}
