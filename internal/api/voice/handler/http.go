package voiceHandler

import (
	voiceService "CommunityCompass/internal/api/voice/service"
	"CommunityCompass/internal/middleware"
	"CommunityCompass/pkg/handlerUtil"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const clientIDLocal = "client_id"

type VoiceHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	voiceService voiceService.IVoiceService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	vs voiceService.IVoiceService,
) *VoiceHandler {
	return &VoiceHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		voiceService: vs,
	}
}

func (h *VoiceHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		clientID := h.middleware.GetClientID(c)
		if clientID == "" {
			errHandler := handlerUtil.New(h.log)
			return errHandler.HandleValidationError(c, h.middleware.GetRequestID(c),
				errClientIDMissing, c.Path())
		}
		c.Locals(clientIDLocal, clientID)
		return c.Next()
	}

	voice := srv.Group("/voice")
	voice.Use("/ws", wsMiddleware)
	voice.Get("/ws", websocket.New(h.handleWebSocket))

	voice.Get("/features", h.middleware.NewRateLimiter, h.GetFeatures)
	voice.Get("/commands", h.middleware.NewRateLimiter, h.GetCommands)
	voice.Post("/match", h.middleware.NewRateLimiter, h.MatchTranscript)

	voice.Get("/customizations", h.middleware.NewRateLimiter, h.GetCustomizations)
	voice.Post("/customizations", h.middleware.NewRateLimiter, h.AddCustomPhrase)
	voice.Delete("/customizations/all", h.middleware.NewRateLimiter, h.ResetCustomizations)
	voice.Delete("/customizations", h.middleware.NewRateLimiter, h.RemoveCustomPhrase)

	voice.Get("/history", h.middleware.NewRateLimiter, h.GetHistory)
	voice.Get("/history/usage", h.middleware.NewRateLimiter, h.GetCommandUsage)
	voice.Delete("/history", h.middleware.NewRateLimiter, h.ClearHistory)

	voice.Get("/session", h.middleware.NewRateLimiter, h.GetSession)
}
