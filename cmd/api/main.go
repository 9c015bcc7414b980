package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/handlers"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/services"
)

// multipart framing on top of the file itself
const formOverhead = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String(logger.FieldProvider, cfg.Remote.Provider),
	)

	// Initialize analyzer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	analyzer, err := services.NewAnalyzerFromConfig(ctx, cfg.Remote, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize analyzer", zap.Error(err))
	}

	// Start worker pool
	pool := services.NewAnalysisPool(analyzer, cfg.Worker.Concurrency, cfg.Worker.QueueSize, zapLogger)
	pool.Start(ctx)

	analyzeHandler := handlers.NewAnalyzeHandler(pool, cfg.Upload.MaxFileSize, zapLogger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:           handlers.ServiceName,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		BodyLimit:         int(cfg.Upload.MaxFileSize) + formOverhead,
		ErrorHandler:      handlers.ErrorHandler,
		EnablePrintRoutes: cfg.IsDevelopment(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-Analysis-ID",
	}))

	handlers.RegisterRoutes(app, analyzeHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}

	pool.Stop()
}
