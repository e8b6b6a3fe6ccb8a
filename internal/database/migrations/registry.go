package migrations

import (
	"github.com/jmylchreest/yasem/internal/models"
	"gorm.io/gorm"
)

// AllMigrations returns all registered migrations in order.
func AllMigrations() []Migration {
	return []Migration{
		migration001Profiles(),
	}
}

func migration001Profiles() Migration {
	return Migration{
		Version:     "001",
		Description: "Create profiles table",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Profile{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("profiles")
		},
	}
}
