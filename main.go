package main

import (
	"net/http"

	"tulisbareng/config"
	"tulisbareng/config/database"
	"tulisbareng/pkg/logger"
	"tulisbareng/router"
	"tulisbareng/socket"

	"github.com/joho/godotenv"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar.Fatalf("Invalid configuration: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL())
	defer db.Close()

	// Room membership and rate-limit windows live in these two components for
	// the lifetime of the process. They are rebuilt empty on restart and are
	// not shared across instances.
	registry := socket.NewRegistry()
	limiter := socket.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	handler := router.Setup(db, registry, limiter, cfg)

	logger.Sugar.Infof("Backend listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
