package validations

import (
	"context"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)

func ValidateUpdateProfile(ctx context.Context, request *domainProfile.UpdateRequest) error {
	request.FirstName = strings.TrimSpace(request.FirstName)
	request.LastName = strings.TrimSpace(request.LastName)
	request.PhoneNumber = strings.TrimSpace(request.PhoneNumber)
	request.Country = strings.TrimSpace(request.Country)

	err := validation.ValidateStructWithContext(ctx, request,
		validation.Field(&request.FirstName, validation.RuneLength(0, 100)),
		validation.Field(&request.LastName, validation.RuneLength(0, 100)),
		validation.Field(&request.PhoneNumber, validation.Match(phonePattern)),
		validation.Field(&request.Age, validation.NilOrNotEmpty, validation.Min(1), validation.Max(120)),
		validation.Field(&request.Country, validation.RuneLength(0, 100)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
