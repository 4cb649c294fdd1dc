package main

import (
	"CommunityCompass/internal/config"
	"CommunityCompass/pkg/log"
	"CommunityCompass/pkg/redis"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(os.Getenv("DB_REQUIRED") == "true"),
		config.WithMiddleware(config.NewRateLimit(logger)),
		config.WithVoiceConfig(config.NewVoiceConfig(logger)),
		config.WithUtils(),
	}
	if os.Getenv("REDIS_ADDRESS") != "" {
		options = append(options, config.WithRedisServer(redis.New()))
	} else {
		logger.Warn("REDIS_ADDRESS not set, voice customizations are kept in memory")
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
