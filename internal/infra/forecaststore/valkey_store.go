package forecaststore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

// ValkeyStore caches composed forecasts in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "forecast"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (forecast.Response, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return forecast.Response{}, false, nil
		}
		return forecast.Response{}, false, err
	}
	var resp forecast.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return forecast.Response{}, false, err
	}
	return resp, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, resp forecast.Response, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(clampTTL(ttl)).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

// clampTTL rounds sub-second expiries up since EX has second granularity.
func clampTTL(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

var _ forecast.Cache = (*ValkeyStore)(nil)
