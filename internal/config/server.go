package config

import (
	"CommunityCompass/database/postgres"
	voiceHandler "CommunityCompass/internal/api/voice/handler"
	voiceRepository "CommunityCompass/internal/api/voice/repository"
	voiceService "CommunityCompass/internal/api/voice/service"
	"CommunityCompass/internal/middleware"
	"CommunityCompass/pkg/redis"
	"CommunityCompass/pkg/utils"
	voiceEngine "CommunityCompass/pkg/voice"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	redisServer  redis.IRedis
	voiceConfig  voiceEngine.Config
	voiceService voiceService.IVoiceService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{voiceConfig: voiceEngine.DefaultConfig()}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects to Postgres for command history. With required
// false a failed connection only disables history.
func WithDatabase(required bool) ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if !required {
				if s.log != nil {
					s.log.Warnf("Database unavailable, voice command history disabled: %v", err)
				}
				return nil
			}
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware(limit middleware.RateLimit) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, limit)
		return nil
	}
}

func WithVoiceConfig(cfg voiceEngine.Config) ServerOption {
	return func(s *Server) error {
		s.voiceConfig = cfg
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Voice Domain
	var voiceRepo voiceRepository.Repository
	if s.db != nil {
		voiceRepo = voiceRepository.New(s.db, s.log)
	}
	s.voiceService = voiceService.NewVoiceService(s.log, s.voiceConfig, voiceRepo, s.redisServer, s.utils)
	voiceHandlers := voiceHandler.New(s.log, s.validator, s.middleware, s.voiceService)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, voiceHandlers)
}

func (s *Server) Run() error {
	s.setupRoutes()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown closes every voice session before stopping the listener.
func (s *Server) Shutdown() error {
	if s.voiceService != nil {
		s.voiceService.Shutdown()
	}
	err := s.engine.Shutdown()
	if s.db != nil {
		if closeErr := s.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func (s *Server) setupRoutes() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
