package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookreview/internal/config"
	"bookreview/internal/models"
)

func ConnectDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	lvl := gormlogger.Warn
	if cfg.IsDevelopment() {
		lvl = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(lvl),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	// Verify the connection before migrating
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

func runMigrations(db *gorm.DB, logger *zap.Logger) error {
	// The composite unique index on reviews(user_id, book_id) and the unique
	// index on books(isbn) are created here; both invariants are enforced by
	// the database, not by application-level checks.
	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Review{},
	); err != nil {
		return err
	}

	logger.Info("Database migrations applied successfully")
	return nil
}
