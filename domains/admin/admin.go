package admin

import (
	"context"
	"time"

	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	"github.com/nicdemeagbeve-afk/synapse/pkg/logbuffer"
)

type APIStatus string

const (
	APIStatusOpen   APIStatus = "Open"
	APIStatusClosed APIStatus = "Closed"
)

type InstanceSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Owner       string    `json:"owner"`
	ProfileName string    `json:"profileName"`
	APIStatus   APIStatus `json:"apiStatus"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedAgo  string    `json:"createdAgo"`
}

type InstanceFilter struct {
	Search string
	Status string
}

type Proxy struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Protocol string `json:"protocol"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type Overview struct {
	Chat           domainChat.Totals `json:"chat"`
	Instances      map[APIStatus]int `json:"instances"`
	InstancesError string            `json:"instances_error,omitempty"`
	RecentErrors   []logbuffer.Entry `json:"recent_errors"`
	Settings       map[string]any    `json:"settings"`
}

type IAdminUsecase interface {
	ListInstances(ctx context.Context, filter InstanceFilter) ([]InstanceSummary, error)
	RestartInstance(ctx context.Context, instanceID string) error
	LogoutInstance(ctx context.Context, instanceID string) error
	GetProxy(ctx context.Context, instanceID string) (Proxy, error)
	SetProxy(ctx context.Context, instanceID string, proxy Proxy) (Proxy, error)
	ListUsers(ctx context.Context) ([]domainProfile.Profile, error)
	Logs(ctx context.Context, level string, limit int) ([]logbuffer.Entry, error)
	Overview(ctx context.Context) (Overview, error)
}
