package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"magaza-backend/internal/apperr"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/models"
	"magaza-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var testClock = func() time.Time {
	return time.Date(2025, 12, 9, 10, 30, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewService(db, audit.NewRecorderWithClock(testClock))
	svc.now = testClock
	return svc, db
}

func seedRefs(t *testing.T, db *gorm.DB) (categoryID, supplierID uint) {
	t.Helper()
	category := models.Category{Name: "İçecek"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("kategori eklenemedi: %v", err)
	}
	supplier := models.Supplier{Name: "Anadolu Gıda"}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("tedarikçi eklenemedi: %v", err)
	}
	return category.ID, supplier.ID
}

func TestCreateProductsWritesAudit(t *testing.T) {
	svc, db := newTestService(t)
	categoryID, supplierID := seedRefs(t, db)

	created, err := svc.CreateProducts(context.Background(), []ProductInput{
		{Name: "Ayran 1L", SKU: "AYR-001", CategoryID: categoryID, SupplierID: supplierID, CreatedBy: "ali"},
		{Name: "Süt 1L", SKU: "SUT-001", CategoryID: categoryID, SupplierID: supplierID, CreatedBy: "ali"},
	})
	if err != nil {
		t.Fatalf("CreateProducts hata döndü: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("beklenen 2 ürün, gelen %d", len(created))
	}

	var trails []models.ProductAuditTrail
	if err := db.Order("id ASC").Find(&trails).Error; err != nil {
		t.Fatalf("denetim kayıtları okunamadı: %v", err)
	}
	if len(trails) != 2 {
		t.Fatalf("beklenen 2 denetim kaydı, gelen %d", len(trails))
	}
	if trails[0].Action != models.AuditActionCreated || trails[0].NewValue == nil {
		t.Fatalf("Created kaydı eksik: %+v", trails[0])
	}
	if !strings.Contains(*trails[0].NewValue, "AYR-001") {
		t.Fatalf("snapshot SKU içermeli: %s", *trails[0].NewValue)
	}
}

func TestCreateProductsAllOrNothing(t *testing.T) {
	svc, db := newTestService(t)
	categoryID, supplierID := seedRefs(t, db)

	_, err := svc.CreateProducts(context.Background(), []ProductInput{
		{Name: "Ayran 1L", SKU: "AYR-001", CategoryID: categoryID, SupplierID: supplierID, CreatedBy: "ali"},
		{Name: "Süt 1L", SKU: "SUT-001", CategoryID: 999, SupplierID: supplierID, CreatedBy: "ali"},
	})

	var be *apperr.BatchError
	if !errors.As(err, &be) {
		t.Fatalf("beklenen BatchError, gelen %v", err)
	}
	if len(be.Candidates) != 1 || be.Candidates[0].Index != 1 {
		t.Fatalf("geçersiz aday (index 1) raporlanmalı: %+v", be.Candidates)
	}
	if !strings.Contains(be.Candidates[0].Message, "kategori 999 tanımlı değil") {
		t.Fatalf("aday mesajı referansı adıyla vermeli: %q", be.Candidates[0].Message)
	}

	var n int64
	db.Model(&models.Product{}).Count(&n)
	if n != 0 {
		t.Fatalf("geri alma sonrası %d ürün var, 0 olmalı", n)
	}
	db.Model(&models.ProductAuditTrail{}).Count(&n)
	if n != 0 {
		t.Fatalf("geri alma sonrası %d denetim satırı var, 0 olmalı", n)
	}
}

func TestUpdateProductRecordsDiff(t *testing.T) {
	svc, db := newTestService(t)
	categoryID, supplierID := seedRefs(t, db)

	created, err := svc.CreateProducts(context.Background(), []ProductInput{
		{Name: "Ayran 1L", SKU: "AYR-001", CategoryID: categoryID, SupplierID: supplierID, CreatedBy: "ali"},
	})
	if err != nil {
		t.Fatalf("CreateProducts hata döndü: %v", err)
	}

	updated, err := svc.UpdateProduct(context.Background(), created[0].ID, UpdateProductInput{
		Name:       "Ayran 1L Yeni",
		SKU:        "AYR-002",
		CategoryID: categoryID,
		SupplierID: supplierID,
		UpdatedBy:  "veli",
	})
	if err != nil {
		t.Fatalf("UpdateProduct hata döndü: %v", err)
	}
	if updated.SKU != "AYR-002" {
		t.Fatalf("SKU güncellenmeli, gelen %s", updated.SKU)
	}

	var trail models.ProductAuditTrail
	err = db.Where("product_id = ? AND action = ?", created[0].ID, models.AuditActionUpdated).First(&trail).Error
	if err != nil {
		t.Fatalf("Updated denetim kaydı bulunamadı: %v", err)
	}
	if trail.OldValue == nil || !strings.Contains(*trail.OldValue, "AYR-001") {
		t.Fatalf("old_value eski SKU'yu içermeli: %v", trail.OldValue)
	}
	if trail.NewValue == nil || !strings.Contains(*trail.NewValue, "AYR-002") {
		t.Fatalf("new_value yeni SKU'yu içermeli: %v", trail.NewValue)
	}
}

func TestSoftDeleteProductWithLiveAssociations(t *testing.T) {
	svc, db := newTestService(t)
	categoryID, supplierID := seedRefs(t, db)

	created, err := svc.CreateProducts(context.Background(), []ProductInput{
		{Name: "Ayran 1L", SKU: "AYR-001", CategoryID: categoryID, SupplierID: supplierID, CreatedBy: "ali"},
	})
	if err != nil {
		t.Fatalf("CreateProducts hata döndü: %v", err)
	}

	branch := models.Branch{Name: "Merkez Şube"}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("şube eklenemedi: %v", err)
	}
	status := models.Status{Name: "Aktif"}
	if err := db.Create(&status).Error; err != nil {
		t.Fatalf("durum eklenemedi: %v", err)
	}
	bp := models.BranchProduct{
		BranchID:      branch.ID,
		ProductID:     created[0].ID,
		StatusID:      status.ID,
		StockQuantity: decimal.NewFromInt(5),
		CreatedBy:     "seed",
	}
	if err := db.Create(&bp).Error; err != nil {
		t.Fatalf("şube-ürün kaydı eklenemedi: %v", err)
	}

	// Canlı ilişki varken ürün silinemez
	if err := svc.SoftDeleteProduct(context.Background(), created[0].ID, "ali"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("canlı ilişki varken beklenen InvalidArgument, gelen %v", err)
	}

	// İlişki pasife alınınca ürün silinebilir
	if err := db.Model(&models.BranchProduct{}).
		Where("branch_id = ? AND product_id = ?", branch.ID, created[0].ID).
		Updates(map[string]any{"deleted_at": testClock(), "deleted_by": "ali"}).Error; err != nil {
		t.Fatalf("ilişki pasife alınamadı: %v", err)
	}
	if err := svc.SoftDeleteProduct(context.Background(), created[0].ID, "ali"); err != nil {
		t.Fatalf("SoftDeleteProduct hata döndü: %v", err)
	}

	var n int64
	db.Model(&models.Product{}).Count(&n)
	if n != 0 {
		t.Fatalf("silinen ürün varsayılan sorguda görünmemeli, gelen %d", n)
	}
}

func TestSoftDeleteProductTwiceNotFound(t *testing.T) {
	svc, db := newTestService(t)
	categoryID, supplierID := seedRefs(t, db)

	created, err := svc.CreateProducts(context.Background(), []ProductInput{
		{Name: "Ayran 1L", SKU: "AYR-001", CategoryID: categoryID, SupplierID: supplierID, CreatedBy: "ali"},
	})
	if err != nil {
		t.Fatalf("CreateProducts hata döndü: %v", err)
	}
	if err := svc.SoftDeleteProduct(context.Background(), created[0].ID, "ali"); err != nil {
		t.Fatalf("ilk silme hata döndü: %v", err)
	}
	if err := svc.SoftDeleteProduct(context.Background(), created[0].ID, "ali"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("ikinci silme için beklenen NotFound, gelen %v", err)
	}
}
