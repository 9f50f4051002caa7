// Seeds the database with an admin and a batch of demo users.
// Run with: go run ./cmd/seed
package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/util"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepository(dbConn)
	ctx := context.Background()

	ensureUser(ctx, userRepo, logger, "Admin User", "admin@taskhub.com", "admin123", model.RoleAdmin)
	for i := 1; i <= 10; i++ {
		ensureUser(ctx, userRepo, logger,
			fmt.Sprintf("Test User %d", i),
			fmt.Sprintf("user%d@taskhub.com", i),
			"user123",
			model.RoleUser,
		)
	}

	logger.Info("Seeding complete",
		zap.String("admin", "admin@taskhub.com / admin123"),
		zap.String("users", "user1@taskhub.com .. user10@taskhub.com / user123"),
	)
}

func ensureUser(ctx context.Context, repo *repository.UserRepository, logger *zap.Logger, name, email, password, role string) {
	existing, err := repo.FindByEmail(ctx, email)
	if err != nil {
		logger.Fatal("Failed to look up user", zap.String("email", email), zap.Error(err))
	}
	if existing != nil {
		logger.Info("User already exists", zap.String("email", email))
		return
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	u := &model.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := repo.Create(ctx, u); err != nil {
		logger.Fatal("Failed to create user", zap.String("email", email), zap.Error(err))
	}
	logger.Info("User created", zap.String("email", email), zap.String("role", role))
}
