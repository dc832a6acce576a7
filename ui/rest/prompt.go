package rest

import (
	"github.com/gofiber/fiber/v2"
	domainPrompt "github.com/nicdemeagbeve-afk/synapse/domains/prompt"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
)

type Prompt struct {
	Service domainPrompt.IPromptUsecase
}

func InitRestPrompt(app fiber.Router, service domainPrompt.IPromptUsecase) Prompt {
	handler := Prompt{Service: service}
	app.Get("/prompt", handler.Get)
	app.Put("/prompt", handler.Save)
	return handler
}

func (h *Prompt) Get(c *fiber.Ctx) error {
	cfg, err := h.Service.Get(c.UserContext(), middleware.UserID(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Prompt configuration retrieved",
		Results: cfg,
	})
}

func (h *Prompt) Save(c *fiber.Ctx) error {
	var request domainPrompt.SaveRequest
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body: " + err.Error()))
	}

	result, err := h.Service.Save(c.UserContext(), middleware.UserID(c), request)
	utils.PanicIfNeeded(err)

	message := "Prompt configuration saved"
	if !result.GatewaySynced {
		message = "Prompt configuration saved, WhatsApp settings not synced: " + result.SyncError
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: result,
	})
}
