package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	pkgError "github.com/nicdemeagbeve-afk/synapse/pkg/error"
	"github.com/nicdemeagbeve-afk/synapse/pkg/utils"
	"github.com/sirupsen/logrus"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if err := recover(); err != nil {
				res := ErrorResponse(err)
				if res.Status >= http.StatusInternalServerError {
					logrus.WithField("path", ctx.Path()).Errorf("[REST] %s: %s", res.Code, res.Message)
				}
				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}

// ErrorResponse maps a recovered value to the response envelope.
func ErrorResponse(v any) utils.ResponseData {
	res := utils.ResponseData{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: fmt.Sprintf("%v", v),
	}

	err, isErr := v.(error)
	if !isErr {
		return res
	}
	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		res.Status = generic.StatusCode()
		res.Code = generic.ErrCode()
		return res
	}

	switch pkgError.KindOf(err) {
	case pkgError.KindNotFound:
		res.Status = http.StatusNotFound
		res.Code = "NOT_FOUND_ERROR"
	case pkgError.KindDuplicate:
		res.Status = http.StatusConflict
		res.Code = "CONFLICT"
	case pkgError.KindUnavailable:
		res.Status = http.StatusServiceUnavailable
		res.Code = "SERVICE_UNAVAILABLE"
	}
	return res
}
