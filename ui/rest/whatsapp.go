package rest

import (
	"github.com/gofiber/fiber/v2"
	domainInstance "github.com/nicdemeagbeve-afk/synapse/domains/instance"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
)

// WhatsApp manages the caller's own gateway instance, whose name is the
// caller's user id.
type WhatsApp struct {
	Service domainInstance.IInstanceUsecase
}

func InitRestWhatsApp(app fiber.Router, service domainInstance.IInstanceUsecase) WhatsApp {
	handler := WhatsApp{Service: service}

	group := app.Group("/whatsapp")
	group.Post("/instance", handler.Create)
	group.Delete("/instance", handler.Delete)
	group.Get("/qrcode", handler.QRCode)
	group.Get("/state", handler.State)
	group.Put("/restart", handler.Restart)
	group.Delete("/logout", handler.Logout)
	group.Post("/group", handler.CreateGroup)

	return handler
}

func (h *WhatsApp) Create(c *fiber.Ctx) error {
	result, err := h.Service.Create(c.UserContext(), middleware.UserID(c))
	utils.PanicIfNeeded(err)

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Instance created",
		Results: result,
	})
}

func (h *WhatsApp) QRCode(c *fiber.Ctx) error {
	qr, err := h.Service.QRCode(c.UserContext(), middleware.UserID(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "QR code retrieved",
		Results: qr,
	})
}

func (h *WhatsApp) State(c *fiber.Ctx) error {
	state, err := h.Service.State(c.UserContext(), middleware.UserID(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Connection state retrieved",
		Results: state,
	})
}

func (h *WhatsApp) Restart(c *fiber.Ctx) error {
	utils.PanicIfNeeded(h.Service.Restart(c.UserContext(), middleware.UserID(c)))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance restarted",
	})
}

func (h *WhatsApp) Logout(c *fiber.Ctx) error {
	utils.PanicIfNeeded(h.Service.Logout(c.UserContext(), middleware.UserID(c)))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance logged out",
	})
}

func (h *WhatsApp) Delete(c *fiber.Ctx) error {
	utils.PanicIfNeeded(h.Service.Delete(c.UserContext(), middleware.UserID(c)))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance deleted",
	})
}

func (h *WhatsApp) CreateGroup(c *fiber.Ctx) error {
	var request domainInstance.CreateGroupRequest
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body: " + err.Error()))
	}

	group, err := h.Service.CreateGroup(c.UserContext(), middleware.UserID(c), request)
	utils.PanicIfNeeded(err)

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "Group created",
		Results: group,
	})
}
