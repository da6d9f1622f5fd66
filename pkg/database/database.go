package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventhub/internal/model"
	"eventhub/pkg/config"
)

// InitDB opens the PostgreSQL connection with pooling from config. The
// returned handle is passed to repositories at startup; there is no global.
func InitDB(dbConfig *config.DBConfig) (*gorm.DB, error) {
	pgConfig := postgres.Config{
		DSN:                  dbConfig.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(dbConfig.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database object: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

// Migrate runs migrations for all models plus the raw indexes AutoMigrate
// cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Tenant{},
		&model.TenantSettings{},
		&model.User{},
		&model.Event{},
		&model.Ticket{},
		&model.Registration{},
		&model.CheckIn{},
		&model.Feedback{},
		&model.Invoice{},
		&model.UsageLog{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Partial unique indexes: backstop for the duplicate-registration check.
	// At most one non-cancelled registration per (event, user) and per
	// (event, email) for guest registrations.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_active_user
		ON registrations (event_id, user_id)
		WHERE status <> 'CANCELLED' AND user_id IS NOT NULL
	`).Error; err != nil {
		return fmt.Errorf("create registration user index: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_active_email
		ON registrations (event_id, lower(email))
		WHERE status <> 'CANCELLED' AND user_id IS NULL
	`).Error; err != nil {
		return fmt.Errorf("create registration email index: %w", err)
	}

	return nil
}
