package main

import (
	"gorm.io/gorm"

	"github.com/onsite-build/engine/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		// Accounts
		&models.User{},

		// Projects & budgets
		&models.Project{},
		&models.Budget{},
		&models.Transaction{},
		&models.Vendor{},

		// Notifications
		&models.Notification{},

		// Workforce & payroll
		&models.Worker{},
		&models.Attendance{},
		&models.Payment{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		enableUUIDExtension,
		addLedgerIndexes,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// enableUUIDExtension ensures UUID generation is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addLedgerIndexes covers the hot read paths: per-budget transaction
// listings and the vendor rollup.
func addLedgerIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_budget_created
		ON transactions(budget_id, created_at)
	`).Error; err != nil {
		return err
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_transactions_vendor
		ON transactions(vendor_id)
		WHERE vendor_id IS NOT NULL
	`).Error; err != nil {
		return err
	}
	return nil
}
