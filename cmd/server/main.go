package main

import (
	"context"
	"log"

	"github.com/Raposo87/site-escola-surf/internal/config"
	"github.com/Raposo87/site-escola-surf/internal/database"
	"github.com/Raposo87/site-escola-surf/internal/logger"
	"github.com/Raposo87/site-escola-surf/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLog.Sync()
	}()

	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	pool, err := database.Connect(context.Background(), cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	routes.RegisterRoutes(app, cfg, pool, zapLog)

	zapLog.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
