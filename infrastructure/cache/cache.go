package cache

import (
	"context"
	"time"
)

// Store is a JSON key/value cache with per-entry TTL.
// Get reports found=false on a miss or an expired entry.
type Store interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Keys shared by the pipeline and the dashboard.
func PromptKey(instanceID string) string { return "prompt:" + instanceID }
func StateKey(instanceID string) string  { return "state:" + instanceID }
func QRCodeKey(instanceID string) string { return "qrcode:" + instanceID }

const (
	PromptTTL = 5 * time.Minute
	StateTTL  = 24 * time.Hour
	QRCodeTTL = 45 * time.Second
)
