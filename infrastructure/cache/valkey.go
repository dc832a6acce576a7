package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nicdemeagbeve-afk/synapse/infrastructure/valkey"
)

type ValkeyStore struct {
	client *valkey.Client
}

func NewValkeyStore(client *valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func (s *ValkeyStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	inner := s.client.Inner()
	data, err := inner.Do(ctx, inner.B().Get().Key(s.client.Key("cache", key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry %s: %w", key, err)
	}
	return true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %s: %w", key, err)
	}

	inner := s.client.Inner()
	var cmdErr error
	if ttl > 0 {
		cmdErr = inner.Do(ctx, inner.B().Set().Key(s.client.Key("cache", key)).Value(string(data)).Ex(ttl).Build()).Error()
	} else {
		cmdErr = inner.Do(ctx, inner.B().Set().Key(s.client.Key("cache", key)).Value(string(data)).Build()).Error()
	}
	if cmdErr != nil {
		return fmt.Errorf("failed to set cache entry %s: %w", key, cmdErr)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	inner := s.client.Inner()
	if err := inner.Do(ctx, inner.B().Del().Key(s.client.Key("cache", key)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}
