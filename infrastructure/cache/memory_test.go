package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type state struct {
		State string `json:"state"`
	}

	require.NoError(t, s.Set(ctx, StateKey("user_123"), state{State: "open"}, StateTTL))

	var got state
	found, err := s.Get(ctx, StateKey("user_123"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "open", got.State)

	require.NoError(t, s.Delete(ctx, StateKey("user_123")))
	found, err = s.Get(ctx, StateKey("user_123"), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, QRCodeKey("u1"), "data:image/png;base64,AAA", QRCodeTTL))

	var qr string
	found, _ := s.Get(ctx, QRCodeKey("u1"), &qr)
	assert.True(t, found)

	now = now.Add(QRCodeTTL + time.Second)
	found, err := s.Get(ctx, QRCodeKey("u1"), &qr)
	require.NoError(t, err)
	assert.False(t, found)
}
