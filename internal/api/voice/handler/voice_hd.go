package voiceHandler

import (
	"CommunityCompass/internal/api/voice"
	contextPkg "CommunityCompass/pkg/context"
	"CommunityCompass/pkg/handlerUtil"
	"CommunityCompass/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

var errClientIDMissing = errors.New("X-Client-ID header or client_id query is required")

func (h *VoiceHandler) GetFeatures(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "get_features")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"client_id":  clientID,
		"path":       ctx.Path(),
	}).Debug("Processing get voice features request")

	features, err := h.voiceService.GetFeatures(c, clientID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_features")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"features": features,
			"total":    len(features),
		})
	}
}

func (h *VoiceHandler) GetCommands(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "get_commands")
	}

	var query voice.CommandsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"client_id":  clientID,
		"lang":       query.Language,
	}).Debug("Processing get voice commands request")

	commands, err := h.voiceService.GetCommands(c, clientID, query.Language)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_commands")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"commands": commands,
			"total":    len(commands),
		})
	}
}

func (h *VoiceHandler) MatchTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "match_transcript")
	}

	var req voice.MatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.voiceService.MatchTranscript(c, clientID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "match_transcript")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *VoiceHandler) GetCustomizations(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "get_customizations")
	}

	customizations, err := h.voiceService.GetCustomizations(c, clientID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_customizations")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, customizations)
	}
}

func (h *VoiceHandler) AddCustomPhrase(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "add_custom_phrase")
	}

	var req voice.CustomPhraseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"client_id":  clientID,
		"feature":    req.Path,
	}).Debug("Processing add custom phrase request")

	customizations, err := h.voiceService.AddCustomPhrase(c, clientID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "add_custom_phrase")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, customizations)
	}
}

func (h *VoiceHandler) RemoveCustomPhrase(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "remove_custom_phrase")
	}

	var req voice.CustomPhraseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	customizations, err := h.voiceService.RemoveCustomPhrase(c, clientID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "remove_custom_phrase")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, customizations)
	}
}

func (h *VoiceHandler) ResetCustomizations(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "reset_customizations")
	}

	if err := h.voiceService.ResetCustomizations(c, clientID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "reset_customizations")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Voice command customizations reset",
		})
	}
}

func (h *VoiceHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "get_history")
	}

	var query voice.HistoryQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"client_id":  clientID,
		"page":       query.Page,
		"limit":      query.Limit,
	}).Debug("Processing get voice history request")

	history, err := h.voiceService.GetHistory(c, clientID, query.Page, query.Limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, history)
	}
}

func (h *VoiceHandler) GetCommandUsage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "get_command_usage")
	}

	usage, err := h.voiceService.GetCommandUsage(c, clientID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_command_usage")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"usage": usage,
		})
	}
}

func (h *VoiceHandler) ClearHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "clear_history")
	}

	if err := h.voiceService.ClearHistory(c, clientID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
	}
}

func (h *VoiceHandler) GetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	clientID := h.middleware.GetClientID(ctx)
	if clientID == "" {
		return errHandler.Handle(ctx, requestID, voice.ErrClientIDRequired, ctx.Path(), "get_session")
	}

	session, err := h.voiceService.GetSession(c, clientID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, session)
	}
}
