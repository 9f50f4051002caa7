package main

import (
	"time"

	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/handler"
	"taskboard/internal/httpserver"
	"taskboard/internal/mq"
	redisclient "taskboard/internal/redis"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/util"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	statsCache := util.NewTaskStatsCache(rdb, 30*time.Second)

	// Init RabbitMQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	taskRepo := repository.NewTaskRepository(dbConn, logger)

	// Init Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, publisher, statsCache, logger)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)

	// Router
	router := httpserver.NewRouter(authHandler, taskHandler, authService, cfg.JWT.Secret, dbConn)

	logger.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
