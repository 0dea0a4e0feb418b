package main

import (
	"github.com/blockwork/engine/internal/models"
	"gorm.io/gorm"
)

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB, driver string) error {
	if driver == "postgres" {
		if err := enableUUIDExtension(db); err != nil {
			return err
		}
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles indexes AutoMigrate can't express.
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addPropertyIndexes,
		addLinkSourceIndex,
	}
	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addPropertyIndexes speeds up "everything assigned to me in this workspace" lookups.
func addPropertyIndexes(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entity_properties_workspace_status
		ON entity_properties(workspace_id, status)
		WHERE status IS NOT NULL
	`).Error
}

// addLinkSourceIndex backs outgoing-link listing.
func addLinkSourceIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entity_links_source
		ON entity_links(source_id, source_type)
	`).Error
}
