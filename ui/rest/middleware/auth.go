package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/security"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	localUserID  = "user_id"
	localEmail   = "user_email"
	localIsAdmin = "user_is_admin"
)

// Auth verifies the Supabase access token carried as a Bearer header, or as
// ?token= on websocket upgrades.
func Auth(verifier *security.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return reject(c, pkgError.UnauthorizedError("missing access token"))
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logrus.WithError(err).Debug("[AUTH] token rejected")
			return reject(c, pkgError.UnauthorizedError("invalid or expired token"))
		}

		c.Locals(localUserID, claims.UserID())
		c.Locals(localEmail, claims.Email)
		return c.Next()
	}
}

// RequireAdmin lets the request through only when the caller's profile has
// the admin role.
func RequireAdmin(profiles domainProfile.IProfileUsecase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, err := ResolveAdmin(c, profiles)
		if err != nil {
			return reject(c, pkgError.InternalServerError(err.Error()))
		}
		if !isAdmin {
			return reject(c, pkgError.ForbiddenError("admin role required"))
		}
		return c.Next()
	}
}

// ResolveAdmin looks the role up once per request.
func ResolveAdmin(c *fiber.Ctx, profiles domainProfile.IProfileUsecase) (bool, error) {
	if v, ok := c.Locals(localIsAdmin).(bool); ok {
		return v, nil
	}
	isAdmin, err := profiles.IsAdmin(c.UserContext(), UserID(c))
	if err != nil {
		return false, err
	}
	c.Locals(localIsAdmin, isAdmin)
	return isAdmin, nil
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func UserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(localEmail).(string)
	return email
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func reject(c *fiber.Ctx, err pkgError.GenericError) error {
	return c.Status(err.StatusCode()).JSON(utils.ResponseData{
		Status:  err.StatusCode(),
		Code:    err.ErrCode(),
		Message: err.Error(),
	})
}
