package database

import (
	"restaurant/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection initializes a new connection pool using GORM and migrates the schema
func NewConnection(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Warn("failed to auto-migrate models", zap.Error(err))
	}

	return db, nil
}

// Migrate creates or updates the tables backing the inventory-consistency engine
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.InventoryItem{},
		&model.MenuItem{},
		&model.RecipeRequirement{},
		&model.Order{},
		&model.OrderItem{},
		&model.StockMovement{},
		&model.AuditLog{},
	)
}
