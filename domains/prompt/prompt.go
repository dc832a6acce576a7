package prompt

import (
	"context"
	"time"
)

type Config struct {
	InstanceID          string     `json:"instanceId"`
	MainPrompt          string     `json:"mainPrompt"`
	IgnoreCalls         bool       `json:"ignoreCalls"`
	IgnoreGroupMessages bool       `json:"ignoreGroupMessages"`
	IsDefault           bool       `json:"isDefault"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

type SaveRequest struct {
	MainPrompt          string `json:"mainPrompt"`
	IgnoreCalls         bool   `json:"ignoreCalls"`
	IgnoreGroupMessages bool   `json:"ignoreGroupMessages"`
}

type SaveResult struct {
	Config        Config `json:"config"`
	GatewaySynced bool   `json:"gatewaySynced"`
	SyncError     string `json:"syncError,omitempty"`
}

type IPromptStore interface {
	Get(ctx context.Context, instanceID string) (Config, error)
	Upsert(ctx context.Context, cfg Config) (Config, error)
}

type IPromptUsecase interface {
	Get(ctx context.Context, instanceID string) (Config, error)
	Save(ctx context.Context, instanceID string, req SaveRequest) (SaveResult, error)
	// Resolve never fails: lookup errors and absence both yield the default prompt.
	Resolve(ctx context.Context, instanceID string) Config
}
