package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"kasir/internal/app"
	"kasir/internal/config"
	"kasir/internal/handlers"
	"kasir/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := app.NewLogger(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	zap.ReplaceGlobals(zapLogger)
	defer zapLogger.Sync() //nolint:errcheck

	// --- Application context: storage, services, jobs ---
	application := app.NewApplication(cfg)
	if err := application.Init(); err != nil {
		zap.S().Fatalf("Failed to initialize application: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			zap.S().Errorf("Error during teardown: %v", err)
		}
	}()

	if mq := application.MQ(); mq != nil && cfg.AMQPConsume {
		if err := mq.ConsumeTransactionEvents(rabbitmq.LogTransactionEvent); err != nil {
			zap.S().Warnf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	server := newServer(application)

	// --- Start HTTP Server ---
	zap.S().Infof("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(cfg.AppPort); err != nil {
			zap.S().Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	zap.S().Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		zap.S().Errorf("Error during Fiber shutdown: %v", err)
	}
	zap.S().Info("Server gracefully stopped")
}

// newServer builds the fiber app with every route of application.
func newServer(application *app.Application) *fiber.App {
	server := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})
	server.Use(logger.New())
	handlers.RegisterRoutes(server, application)
	return server
}
