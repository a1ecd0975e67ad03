package database

import (
	"fmt"

	"impulsa-web/internal/domain/classes"
	"impulsa-web/internal/domain/clients"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/purchases"
	"impulsa-web/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},
		&purchases.Purchase{},
		&classes.Class{},
		&clients.Client{},
	}
}

func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// InitDB opens the postgres connection and stores it in DB.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	DB = db
	return db, nil
}

// Migrate enables pgcrypto and auto-migrates all models.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			return fmt.Errorf("enable pgcrypto: %w", err)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
