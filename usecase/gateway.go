package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicdemeagbeve-afk/synapse/integrations/evolution"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
)

// Gateway is the subset of the Evolution API used by the dashboard services.
type Gateway interface {
	Configured() bool
	CreateInstance(ctx context.Context, req evolution.CreateInstanceRequest) (evolution.CreateInstanceResponse, error)
	Connect(ctx context.Context, instance string) (evolution.QRCode, error)
	ConnectionState(ctx context.Context, instance string) (string, error)
	Restart(ctx context.Context, instance string) error
	Logout(ctx context.Context, instance string) error
	DeleteInstance(ctx context.Context, instance string) error
	FetchInstances(ctx context.Context) ([]evolution.InstanceInfo, error)
	SetSettings(ctx context.Context, instance string, s evolution.Settings) error
	FindSettings(ctx context.Context, instance string) (evolution.Settings, error)
	SetProxy(ctx context.Context, instance string, p evolution.Proxy) error
	FindProxy(ctx context.Context, instance string) (evolution.Proxy, error)
	SendText(ctx context.Context, instance, number, text string) (string, error)
	CreateGroup(ctx context.Context, instance string, req evolution.CreateGroupRequest) (evolution.GroupInfo, error)
}

var _ Gateway = (*evolution.Client)(nil)

// gatewayError turns a gateway failure into an HTTP-aware error. Gateway
// answers keep their status code; transport failures become 502.
func gatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, evolution.ErrNotConfigured) {
		return pkgError.UpstreamError{Status: 503, Message: fmt.Sprintf("%s: %v", op, err)}
	}
	var apiErr *evolution.APIError
	if errors.As(err, &apiErr) {
		return pkgError.UpstreamError{Status: apiErr.StatusCode, Message: fmt.Sprintf("%s: %s", op, apiErr.Body)}
	}
	return pkgError.GatewayError(fmt.Sprintf("%s: %v", op, err))
}
