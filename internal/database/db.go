package database

import (
	"fmt"

	"magaza-backend/internal/config"
	"magaza-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init - Postgres bağlantısını açar ve şemayı migrate eder. Global değişken
// yok: dönen *gorm.DB, bileşenlere main'de elden verilir.
func Init(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		// Unique ihlalleri gorm.ErrDuplicatedKey olarak dönsün
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Category{},
		&models.Supplier{},
		&models.Status{},
		&models.Product{},
		&models.BranchProduct{},
		&models.BranchProductAuditTrail{},
		&models.ProductAuditTrail{},
		&models.Inventory{},
		&models.InventoryNormalization{},
	)
	if err != nil {
		return fmt.Errorf("migration başarısız: %w", err)
	}
	return nil
}
