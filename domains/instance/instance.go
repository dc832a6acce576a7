package instance

import (
	"context"
	"time"
)

type State string

const (
	StateConnected    State = "connected"
	StatePending      State = "pending"
	StateDisconnected State = "disconnected"
)

// StateFromGateway maps the gateway connection state onto the dashboard states.
func StateFromGateway(raw string) State {
	switch raw {
	case "open":
		return StateConnected
	case "connecting":
		return StatePending
	default:
		return StateDisconnected
	}
}

type StateInfo struct {
	InstanceID string    `json:"instanceId"`
	State      State     `json:"state"`
	Raw        string    `json:"raw,omitempty"`
	Stale      bool      `json:"stale"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type QRCode struct {
	InstanceID  string    `json:"instanceId"`
	Base64      string    `json:"base64"`
	Code        string    `json:"code,omitempty"`
	PairingCode string    `json:"pairingCode,omitempty"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type CreateResult struct {
	InstanceID string  `json:"instanceId"`
	Status     string  `json:"status"`
	WebhookURL string  `json:"webhookUrl,omitempty"`
	QRCode     *QRCode `json:"qrcode,omitempty"`
}

type CreateGroupRequest struct {
	GroupName    string   `json:"groupName"`
	Description  string   `json:"description"`
	Participants []string `json:"participants"`
}

type Group struct {
	ID           string   `json:"id"`
	Subject      string   `json:"subject"`
	Description  string   `json:"description,omitempty"`
	Participants []string `json:"participants"`
}

type IInstanceUsecase interface {
	Create(ctx context.Context, instanceID string) (CreateResult, error)
	QRCode(ctx context.Context, instanceID string) (QRCode, error)
	State(ctx context.Context, instanceID string) (StateInfo, error)
	Restart(ctx context.Context, instanceID string) error
	Logout(ctx context.Context, instanceID string) error
	Delete(ctx context.Context, instanceID string) error
	CreateGroup(ctx context.Context, instanceID string, req CreateGroupRequest) (Group, error)
}
