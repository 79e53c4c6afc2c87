package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// Connect opens the postgres pool. production selects the larger pool sizing.
func Connect(dsn string, production bool) (*gorm.DB, error) {
	level := logger.Warn
	if !production {
		level = logger.Info
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if production {
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(200)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	log.Println("[db] connected")
	return gdb, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.Job{},
		&models.JobApplication{},
		&models.DeveloperProfile{},
		&models.PortfolioItem{},
		&models.Message{},
		&models.Review{},
		&models.Payment{},
		&models.Notification{},
	)
}
