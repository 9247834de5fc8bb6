package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"dzwave.net/regdoc/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250114_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Document{},
					&models.CpeModel{}, &models.InternetOffer{})
			},
		},
		{
			ID: "20250302_add_dolibarr_id",
			Migrate: func(tx *gorm.DB) error {
				// Older installs predate the ERP integration.
				return tx.AutoMigrate(&models.Document{})
			},
		},
	})
	return m.Migrate()
}
