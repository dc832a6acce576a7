package validations

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainInstance "github.com/nicdemeagbeve-afk/synapse/domains/instance"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
)

func ValidateCreateGroup(ctx context.Context, request *domainInstance.CreateGroupRequest) error {
	request.GroupName = strings.TrimSpace(request.GroupName)
	cleaned := make([]string, 0, len(request.Participants))
	for _, p := range request.Participants {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	request.Participants = cleaned

	err := validation.ValidateStructWithContext(ctx, request,
		validation.Field(&request.GroupName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&request.Description, validation.RuneLength(0, 512)),
		validation.Field(&request.Participants, validation.Required.Error("participants must be a non-empty array")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
