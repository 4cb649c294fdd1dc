package handlerUtil

import (
	"CommunityCompass/pkg/log"
	"CommunityCompass/pkg/response"
	voiceEngine "CommunityCompass/pkg/voice"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

type engineError struct {
	err     error
	status  int
	code    string
	message string
}

// Voice engine errors that can surface through the REST surface.
var engineErrors = []engineError{
	{voiceEngine.ErrFeatureNotFound, fiber.StatusNotFound, "FEATURE_NOT_FOUND", "Feature not found"},
	{voiceEngine.ErrFeatureIndex, fiber.StatusBadRequest, "FEATURE_INDEX_OUT_OF_RANGE", "Feature index out of range"},
	{voiceEngine.ErrUnknownLanguage, fiber.StatusBadRequest, "UNKNOWN_LANGUAGE", "Language must be one of: en, bn"},
	{voiceEngine.ErrEmptyPhrase, fiber.StatusBadRequest, "EMPTY_PHRASE", "Phrase must not be empty"},
	{voiceEngine.ErrEmptyKeywords, fiber.StatusBadRequest, "EMPTY_KEYWORDS", "Command needs at least one keyword"},
	{voiceEngine.ErrPermissionDenied, fiber.StatusForbidden, "MICROPHONE_DENIED", "Microphone permission denied"},
	{voiceEngine.ErrMicrophoneBusy, fiber.StatusConflict, "MICROPHONE_BUSY", "Microphone is in use"},
	{voiceEngine.ErrRecognitionUnsupported, fiber.StatusNotImplemented, "RECOGNITION_UNSUPPORTED", "Speech recognition is not supported"},
	{voiceEngine.ErrEngineClosed, fiber.StatusGone, "SESSION_CLOSED", "Voice session is closed"},
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields := log.Fields{
			"request_id": requestID,
			"error":      respErr.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}
		if respErr.Cause != nil {
			fields["cause"] = respErr.Cause.Error()
		}
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ErrorResponse{
			Error: respErr.Error(),
			Code:  respErr.Reason,
		})
	}

	for _, e := range engineErrors {
		if !errors.Is(err, e.err) {
			continue
		}
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn(e.message)
		return c.Status(e.status).JSON(ErrorResponse{
			Error: e.message,
			Code:  e.code,
		})
	}

	traceID := log.ErrorWithTraceID(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
