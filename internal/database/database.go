package database

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/database/models"
	"github.com/hugh/workops/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.SSLMode == "disable" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to database", "host", cfg.Host, "database", cfg.Name)

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Activity{},
	)
}

// InOrg restricts a query to rows owned by orgID. Every org-scoped read and
// write goes through this scope.
func InOrg(orgID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", orgID)
	}
}

// InOrgAndID restricts a query to a single row owned by orgID.
func InOrgAndID(orgID, id uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ? AND id = ?", orgID, id)
	}
}

// Paginate applies offset/limit for a 1-based page.
func Paginate(page, perPage int) func(*gorm.DB) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}
