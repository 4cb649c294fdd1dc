package config

import (
	"CommunityCompass/pkg/handlerUtil"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// Voice REST bodies are short JSON documents; audio never goes through HTTP.
const bodyLimit = 64 * 1024

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "Community Compass",
			BodyLimit:         bodyLimit,
			IdleTimeout:       2 * time.Minute,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: true,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler:      fiberErrorHandler(logger),
		})

	return app
}

// fiberErrorHandler renders errors that escape the handlers (unknown routes,
// oversized bodies, panics turned into errors) in the same shape as the
// voice API errors.
func fiberErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		message := utils.StatusMessage(status)
		if status >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
				"error":  err.Error(),
			}).Error("Unhandled request error")
		} else if fiberErr != nil {
			message = fiberErr.Message
		}

		return c.Status(status).JSON(handlerUtil.ErrorResponse{
			Error: message,
			Code:  statusCode(status),
		})
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}
