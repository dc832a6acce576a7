package rest

import (
	"github.com/gofiber/fiber/v2"
	domainAdmin "github.com/nicdemeagbeve-afk/synapse/domains/admin"
	domainProfile "github.com/nicdemeagbeve-afk/synapse/domains/profile"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
)

type Admin struct {
	Service domainAdmin.IAdminUsecase
}

func InitRestAdmin(app fiber.Router, service domainAdmin.IAdminUsecase, profiles domainProfile.IProfileUsecase) Admin {
	handler := Admin{Service: service}

	group := app.Group("/admin", middleware.RequireAdmin(profiles))
	group.Get("/instances", handler.ListInstances)
	group.Post("/instances/:id/restart", handler.RestartInstance)
	group.Post("/instances/:id/logout", handler.LogoutInstance)
	group.Get("/instances/:id/proxy", handler.GetProxy)
	group.Put("/instances/:id/proxy", handler.SetProxy)
	group.Get("/users", handler.ListUsers)
	group.Get("/logs", handler.Logs)
	group.Get("/overview", handler.Overview)

	return handler
}

func (h *Admin) ListInstances(c *fiber.Ctx) error {
	instances, err := h.Service.ListInstances(c.UserContext(), domainAdmin.InstanceFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instances retrieved",
		Results: instances,
	})
}

func (h *Admin) RestartInstance(c *fiber.Ctx) error {
	utils.PanicIfNeeded(h.Service.RestartInstance(c.UserContext(), c.Params("id")))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance restarted",
	})
}

func (h *Admin) LogoutInstance(c *fiber.Ctx) error {
	utils.PanicIfNeeded(h.Service.LogoutInstance(c.UserContext(), c.Params("id")))

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Instance logged out",
	})
}

func (h *Admin) GetProxy(c *fiber.Ctx) error {
	proxy, err := h.Service.GetProxy(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Proxy retrieved",
		Results: proxy,
	})
}

func (h *Admin) SetProxy(c *fiber.Ctx) error {
	var request domainAdmin.Proxy
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body: " + err.Error()))
	}

	proxy, err := h.Service.SetProxy(c.UserContext(), c.Params("id"), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Proxy updated",
		Results: proxy,
	})
}

func (h *Admin) ListUsers(c *fiber.Ctx) error {
	users, err := h.Service.ListUsers(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Users retrieved",
		Results: users,
	})
}

func (h *Admin) Logs(c *fiber.Ctx) error {
	entries, err := h.Service.Logs(c.UserContext(), c.Query("level"), c.QueryInt("limit", 0))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Logs retrieved",
		Results: entries,
	})
}

func (h *Admin) Overview(c *fiber.Ctx) error {
	overview, err := h.Service.Overview(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Overview retrieved",
		Results: overview,
	})
}
