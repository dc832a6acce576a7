package rest

import (
	"github.com/gofiber/fiber/v2"
	domainChat "github.com/nicdemeagbeve-afk/synapse/domains/chat"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/nicdemeagbeve-afk/synapse/ui/rest/middleware"
)

type ChatHistory struct {
	Service domainChat.IChatUsecase
}

func InitRestChatHistory(app fiber.Router, service domainChat.IChatUsecase) ChatHistory {
	handler := ChatHistory{Service: service}

	group := app.Group("/chat-history/conversations")
	group.Get("/", handler.ListConversations)
	group.Get("/:id/messages", handler.ListMessages)
	group.Put("/:id/mark-read", handler.MarkRead)
	group.Put("/:id/status", handler.UpdateStatus)

	app.Get("/user-stats", handler.UserStats)
	return handler
}

func (h *ChatHistory) ListConversations(c *fiber.Ctx) error {
	conversations, err := h.Service.ListConversations(c.UserContext(), middleware.UserID(c), c.Query("status"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversations retrieved",
		Results: conversations,
	})
}

func (h *ChatHistory) ListMessages(c *fiber.Ctx) error {
	messages, err := h.Service.ListMessages(c.UserContext(), middleware.UserID(c), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Messages retrieved",
		Results: messages,
	})
}

func (h *ChatHistory) MarkRead(c *fiber.Ctx) error {
	err := h.Service.MarkRead(c.UserContext(), middleware.UserID(c), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversation marked as read",
	})
}

func (h *ChatHistory) UpdateStatus(c *fiber.Ctx) error {
	var request domainChat.UpdateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		panic(pkgError.ValidationError("invalid request body: " + err.Error()))
	}

	err := h.Service.UpdateStatus(c.UserContext(), middleware.UserID(c), c.Params("id"), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Conversation status updated",
		Results: request,
	})
}

func (h *ChatHistory) UserStats(c *fiber.Ctx) error {
	stats, err := h.Service.UserStats(c.UserContext(), middleware.UserID(c))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "User stats retrieved",
		Results: stats,
	})
}
