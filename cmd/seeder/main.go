// Seeder populates the database with the demo catalog and, when
// ADMIN_EMAIL and ADMIN_PASSWORD are set, bootstraps an admin account.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bookreview/database"
	"bookreview/database/seed"
	"bookreview/internal/config"
	"bookreview/internal/logger"
	"bookreview/internal/middleware/auth"
	"bookreview/internal/models"
	"bookreview/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zl, cleanup := logger.New(cfg.LogLevel, cfg.LogFormat == "json", "")
	defer cleanup()

	db, err := database.ConnectDB(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed.Run(ctx, db, zl); err != nil {
		zl.Fatal("seeding failed", zap.Error(err))
	}

	if err := bootstrapAdmin(db, zl); err != nil {
		zl.Fatal("admin bootstrap failed", zap.Error(err))
	}

	zl.Info("seeding complete")
}

// bootstrapAdmin creates the admin account named by ADMIN_EMAIL and
// ADMIN_PASSWORD. It is a no-op when the variables are unset or the
// account already exists.
func bootstrapAdmin(db *gorm.DB, zl *zap.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		zl.Debug("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.FindByEmail(email); err == nil {
		zl.Info("admin account already exists", zap.String("email", email))
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}

	admin := &models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		IsAdmin:  true,
	}
	if err := userRepo.Create(admin); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil
		}
		return err
	}

	zl.Info("admin account created", zap.String("email", email))
	return nil
}
