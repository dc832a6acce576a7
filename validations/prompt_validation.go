package validations

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
)

const (
	PromptMinLength = 10
	PromptMaxLength = 1000
)

func ValidateSavePrompt(ctx context.Context, request *domainPrompt.SaveRequest) error {
	request.MainPrompt = strings.TrimSpace(request.MainPrompt)

	err := validation.ValidateStructWithContext(ctx, request,
		validation.Field(&request.MainPrompt,
			validation.Required.Error("le prompt principal est requis"),
			validation.RuneLength(PromptMinLength, PromptMaxLength).Error("le prompt doit contenir entre 10 et 1000 caractères"),
		),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
