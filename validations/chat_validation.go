package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainAdmin "github.com/nicdemeagbeve-afk/synapse/domains/admin"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
)

func ValidateUpdateStatus(ctx context.Context, request *domainChat.UpdateStatusRequest) error {
	err := validation.ValidateStructWithContext(ctx, request,
		validation.Field(&request.Status, validation.Required, validation.In(
			domainChat.StatusInProgress, domainChat.StatusClosed, domainChat.StatusUnanswered,
		)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateProxy(ctx context.Context, request *domainAdmin.Proxy) error {
	if !request.Enabled {
		return nil
	}
	err := validation.ValidateStructWithContext(ctx, request,
		validation.Field(&request.Host, validation.Required),
		validation.Field(&request.Port, validation.Required),
		validation.Field(&request.Protocol, validation.Required, validation.In("http", "https", "socks4", "socks5")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
