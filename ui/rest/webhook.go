package rest

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	domainWebhook "github.com/nicdemeagbeve-afk/synapse/domains/webhook"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/sirupsen/logrus"
)

type Webhook struct {
	Service domainWebhook.IWebhookUsecase
	Token   string
}

func InitRestWebhook(app fiber.Router, service domainWebhook.IWebhookUsecase, token string) Webhook {
	handler := Webhook{Service: service, Token: token}
	app.Post("/webhook/evolution", handler.Receive)
	return handler
}

func (h *Webhook) Receive(c *fiber.Ctx) error {
	var payload domainWebhook.Payload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.ResponseData{
			Status:  http.StatusBadRequest,
			Code:    "BAD_REQUEST",
			Message: "invalid JSON payload: " + err.Error(),
		})
	}

	if !h.authorized(c, payload) {
		logrus.WithField("ip", c.IP()).Warn("[WEBHOOK] rejected delivery with a missing or wrong token")
		return c.Status(http.StatusUnauthorized).JSON(utils.ResponseData{
			Status:  http.StatusUnauthorized,
			Code:    "UNAUTHORIZED",
			Message: "invalid webhook token",
		})
	}

	result, err := h.Service.Handle(c.UserContext(), payload)
	if err != nil {
		status, code := http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
		var generic pkgError.GenericError
		if errors.As(err, &generic) && generic.StatusCode() < http.StatusInternalServerError {
			status, code = generic.StatusCode(), "BAD_REQUEST"
		}
		return c.Status(status).JSON(utils.ResponseData{
			Status:  status,
			Code:    code,
			Message: err.Error(),
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  http.StatusOK,
		Code:    string(result.Outcome),
		Message: result.Message,
		Results: result,
	})
}

// authorized accepts the shared token from the query string, either header
// the gateway can be configured with, or the apikey field of the body.
func (h *Webhook) authorized(c *fiber.Ctx, payload domainWebhook.Payload) bool {
	if h.Token == "" {
		return true
	}
	for _, candidate := range []string{c.Query("token"), c.Get("X-Webhook-Token"), c.Get("apikey"), payload.APIKey} {
		if candidate != "" && subtle.ConstantTimeCompare([]byte(candidate), []byte(h.Token)) == 1 {
			return true
		}
	}
	return false
}
