package testutil

import (
	"testing"

	"magaza-backend/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewDB - Testler için bellek içi SQLite veritabanı. Şema migrate edilmiş
// halde döner. Tek bağlantıyla çalışır, yoksa paralel yazmalarda
// SQLITE_BUSY alınır.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB alınamadı: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("test şeması kurulamadı: %v", err)
	}

	return db
}
