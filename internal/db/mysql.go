package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"contactbook/internal/model"
)

// NewMySQL returns a connected GORM DB instance. Driver errors are translated
// so that unique violations surface as gorm.ErrDuplicatedKey.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// MigrateMySQL creates or updates the users and contacts tables. With reset
// set, both tables are dropped first.
func MigrateMySQL(db *gorm.DB, reset bool, log *slog.Logger) error {
	if reset {
		log.Warn("RESET_DB=true detected, dropping all tables")
		for _, table := range []interface{}{&model.Contact{}, &model.User{}} {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Warn("failed to drop table (may not exist)", "error", err)
			}
		}
	}

	if err := db.AutoMigrate(&model.User{}, &model.Contact{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
