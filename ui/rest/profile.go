package rest

import (
	"github.com/gofiber/fiber/v2"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
)

type Profile struct {
	Service domainProfile.IProfileUsecase
}

func InitRestProfile(app fiber.Router, service domainProfile.IProfileUsecase) Profile {
	handler := Profile{Service: service}
	app.Get("/profile", handler.Get)
	app.Put("/profile", handler.Update)
	return handler
}

func (h *Profile) Get(c *fiber.Ctx) error {
	profile, err := h.Service.Get(c.UserContext(), middleware.UserID(c), middleware.UserEmail(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Profile retrieved",
		Results: profile,
	})
}

func (h *Profile) Update(c *fiber.Ctx) error {
	var request domainProfile.UpdateRequest
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body: " + err.Error()))
	}

	profile, err := h.Service.Update(c.UserContext(), middleware.UserID(c), middleware.UserEmail(c), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Profile updated",
		Results: profile,
	})
}
