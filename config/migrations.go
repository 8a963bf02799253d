package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/cqms/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20240108_create_quality_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Project{}, &models.ContractItem{},
					&models.QualityTest{}, &models.Inspection{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("inspections", "tests", "contract_items", "projects")
			},
		},
		{
			ID: "20240122_add_photos_table",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Photo{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("photos")
			},
		},
	})
	return m.Migrate()
}
