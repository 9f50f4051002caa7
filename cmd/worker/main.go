package main

import (
	"time"

	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/mq"
	"taskboard/internal/mqhandler"
	redisclient "taskboard/internal/redis"
	"taskboard/internal/repository"
	"taskboard/internal/util"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting notification worker...")

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Repositories and Handlers
	notificationRepo := repository.NewNotificationRepository(dbConn)
	assignedHandler := mqhandler.NewTaskAssignedHandler(notificationRepo, deduper, logger)
	statusHandler := mqhandler.NewTaskStatusHandler(notificationRepo, deduper, logger)

	// (1) Consumer for assignment notifications
	assignedConsumer, err := mq.NewConsumer(cfg.MQ.URL, "task.assigned.notify.q", mq.EventTaskAssigned, logger)
	if err != nil {
		logger.Fatal("failed to init task.assigned consumer", zap.Error(err))
	}
	assignedConsumer.SetHandler(assignedHandler.HandleTaskAssigned)
	go func() {
		if err := assignedConsumer.StartConsuming(); err != nil {
			logger.Fatal("task.assigned consumer failed", zap.Error(err))
		}
	}()
	defer assignedConsumer.Close()

	// (2) Consumer for status notifications
	statusConsumer, err := mq.NewConsumer(cfg.MQ.URL, "task.status.notify.q", mq.EventTaskStatusChanged, logger)
	if err != nil {
		logger.Fatal("failed to init task.status_changed consumer", zap.Error(err))
	}
	statusConsumer.SetHandler(statusHandler.HandleTaskStatusChanged)
	go func() {
		if err := statusConsumer.StartConsuming(); err != nil {
			logger.Fatal("task.status_changed consumer failed", zap.Error(err))
		}
	}()
	defer statusConsumer.Close()

	logger.Info("All consumers started, worker is ready")

	// Keep worker running
	select {}
}
