package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"magaza-backend/internal/apperr"
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
	return NewServiceWithClock(db, testClock), db
}

// seedBranchProduct - Sayımın örnekleyeceği canlı şube-ürün kaydını kurar
func seedBranchProduct(t *testing.T, db *gorm.DB, stock, cost decimal.Decimal) (branchID, productID uint) {
	t.Helper()

	branch := models.Branch{Name: "Merkez Şube"}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("şube eklenemedi: %v", err)
	}
	category := models.Category{Name: "İçecek"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("kategori eklenemedi: %v", err)
	}
	supplier := models.Supplier{Name: "Anadolu Gıda"}
	if err := db.Create(&supplier).Error; err != nil {
		t.Fatalf("tedarikçi eklenemedi: %v", err)
	}
	status := models.Status{Name: "Aktif"}
	if err := db.Create(&status).Error; err != nil {
		t.Fatalf("durum eklenemedi: %v", err)
	}
	product := models.Product{Name: "Ayran 1L", SKU: "AYR-001", CategoryID: category.ID, SupplierID: supplier.ID, CreatedBy: "seed"}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("ürün eklenemedi: %v", err)
	}
	bp := models.BranchProduct{
		BranchID:      branch.ID,
		ProductID:     product.ID,
		StatusID:      status.ID,
		StockQuantity: stock,
		CostPrice:     cost,
		RetailPrice:   cost.Mul(decimal.NewFromInt(2)),
		CreatedBy:     "seed",
	}
	if err := db.Create(&bp).Error; err != nil {
		t.Fatalf("şube-ürün kaydı eklenemedi: %v", err)
	}
	return branch.ID, product.ID
}

func TestCreateCountSamplesSystemState(t *testing.T) {
	svc, db := newTestService(t)
	branchID, productID := seedBranchProduct(t, db, decimal.NewFromInt(50), decimal.RequireFromString("12.50"))

	inv, err := svc.CreateCount(context.Background(), CreateCountInput{
		BranchID:       branchID,
		ProductID:      productID,
		InventoryDate:  time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		Type:           models.InventoryTypeWeekly,
		ActualQuantity: decimal.NewFromInt(47),
		CreatedBy:      "ali",
	})
	if err != nil {
		t.Fatalf("CreateCount hata döndü: %v", err)
	}

	if !inv.SystemQuantity.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("system_quantity canlı kayıttan örneklenmeli (50), gelen %s", inv.SystemQuantity)
	}
	if !inv.CostPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("cost_price canlı kayıttan örneklenmeli (12.50), gelen %s", inv.CostPrice)
	}
	if !inv.Discrepancy.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("fark beklenen -3, gelen %s", inv.Discrepancy)
	}
	if !inv.DiscrepancyValue.Equal(decimal.RequireFromString("-37.50")) {
		t.Fatalf("fark tutarı beklenen -37.50, gelen %s", inv.DiscrepancyValue)
	}
	if inv.Year != 2025 || inv.Month != 12 || inv.Week != 2 {
		t.Fatalf("tarih alanları yanlış: yıl=%d ay=%d hafta=%d", inv.Year, inv.Month, inv.Week)
	}
}

func TestCreateCountMissingAssociation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCount(context.Background(), CreateCountInput{
		BranchID:       1,
		ProductID:      1,
		InventoryDate:  time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		Type:           models.InventoryTypeWeekly,
		ActualQuantity: decimal.NewFromInt(10),
		CreatedBy:      "ali",
	})
	if !errors.Is(err, apperr.ErrInvalidReference) {
		t.Fatalf("canlı kayıt yokken beklenen InvalidReference, gelen %v", err)
	}
}

func TestWeekOfDateBuckets(t *testing.T) {
	cases := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {21, 3}, {22, 4}, {28, 4}, {31, 4},
	}
	for _, tc := range cases {
		d := time.Date(2025, 12, tc.day, 0, 0, 0, 0, time.UTC)
		if got := models.WeekOfDate(d); got != tc.want {
			t.Fatalf("gün %d için beklenen hafta %d, gelen %d", tc.day, tc.want, got)
		}
	}
}

func seedInventory(t *testing.T, svc *Service, db *gorm.DB) *models.Inventory {
	t.Helper()
	branchID, productID := seedBranchProduct(t, db, decimal.NewFromInt(50), decimal.RequireFromString("12.50"))
	inv, err := svc.CreateCount(context.Background(), CreateCountInput{
		BranchID:       branchID,
		ProductID:      productID,
		InventoryDate:  time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC),
		Type:           models.InventoryTypeWeekly,
		ActualQuantity: decimal.NewFromInt(47),
		CreatedBy:      "ali",
	})
	if err != nil {
		t.Fatalf("sayım kaydı kurulamadı: %v", err)
	}
	return inv
}

func TestCreateNormalizationArithmetic(t *testing.T) {
	svc, db := newTestService(t)
	inv := seedInventory(t, svc, db)

	norm, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       inv.ID,
		ActualQuantity:    decimal.RequireFromString("47.00"),
		SystemQuantity:    decimal.RequireFromString("50.00"),
		CostPrice:         decimal.RequireFromString("12.50"),
		NormalizationDate: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		Remarks:           "haftalık mutabakat",
		CreatedBy:         "ali",
	})
	if err != nil {
		t.Fatalf("CreateNormalization hata döndü: %v", err)
	}

	if !norm.AdjustedQuantity.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("adjusted_quantity beklenen -3, gelen %s", norm.AdjustedQuantity)
	}
	if !norm.DiscrepancyValue.Equal(decimal.RequireFromString("-37.50")) {
		t.Fatalf("discrepancy_value beklenen -37.50, gelen %s", norm.DiscrepancyValue)
	}
}

func TestCreateNormalizationZeroQuantities(t *testing.T) {
	svc, db := newTestService(t)
	inv := seedInventory(t, svc, db)

	norm, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       inv.ID,
		ActualQuantity:    decimal.Zero,
		SystemQuantity:    decimal.Zero,
		CostPrice:         decimal.RequireFromString("12.50"),
		NormalizationDate: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:         "ali",
	})
	if err != nil {
		t.Fatalf("sıfır miktarlar geçerli olmalı: %v", err)
	}
	if !norm.AdjustedQuantity.IsZero() || !norm.DiscrepancyValue.IsZero() {
		t.Fatalf("sıfır sayımda fark ve tutar sıfır olmalı: %s / %s", norm.AdjustedQuantity, norm.DiscrepancyValue)
	}
}

func TestNormalizationRejectsUnknownInventory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       999,
		ActualQuantity:    decimal.NewFromInt(1),
		NormalizationDate: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:         "ali",
	})
	if !errors.Is(err, apperr.ErrInvalidReference) {
		t.Fatalf("olmayan sayım için beklenen InvalidReference, gelen %v", err)
	}
}

func TestCompletedInventoryLocksNormalizations(t *testing.T) {
	svc, db := newTestService(t)
	inv := seedInventory(t, svc, db)

	norm, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       inv.ID,
		ActualQuantity:    decimal.NewFromInt(47),
		SystemQuantity:    decimal.NewFromInt(50),
		CostPrice:         decimal.RequireFromString("12.50"),
		NormalizationDate: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:         "ali",
	})
	if err != nil {
		t.Fatalf("CreateNormalization hata döndü: %v", err)
	}

	if _, err := svc.Complete(context.Background(), inv.ID); err != nil {
		t.Fatalf("Complete hata döndü: %v", err)
	}

	// Tamamlanan sayıma ekleme, değiştirme ve silme reddedilir
	if _, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       inv.ID,
		ActualQuantity:    decimal.NewFromInt(1),
		NormalizationDate: time.Date(2025, 12, 11, 0, 0, 0, 0, time.UTC),
		CreatedBy:         "ali",
	}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("tamamlanan sayıma ekleme beklenen InvalidArgument, gelen %v", err)
	}

	if _, err := svc.UpdateNormalization(context.Background(), norm.ID, UpdateNormalizationInput{
		ActualQuantity:    decimal.NewFromInt(48),
		SystemQuantity:    decimal.NewFromInt(50),
		CostPrice:         decimal.RequireFromString("12.50"),
		NormalizationDate: time.Date(2025, 12, 11, 0, 0, 0, 0, time.UTC),
	}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("tamamlanan sayımda güncelleme beklenen InvalidArgument, gelen %v", err)
	}

	if err := svc.DeleteNormalization(context.Background(), norm.ID); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("tamamlanan sayımda silme beklenen InvalidArgument, gelen %v", err)
	}

	// İkinci Complete çağrısı da reddedilir
	if _, err := svc.Complete(context.Background(), inv.ID); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("ikinci Complete için beklenen InvalidArgument, gelen %v", err)
	}
}

func TestUpdateNormalizationRecomputes(t *testing.T) {
	svc, db := newTestService(t)
	inv := seedInventory(t, svc, db)

	norm, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       inv.ID,
		ActualQuantity:    decimal.NewFromInt(47),
		SystemQuantity:    decimal.NewFromInt(50),
		CostPrice:         decimal.RequireFromString("12.50"),
		NormalizationDate: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:         "ali",
	})
	if err != nil {
		t.Fatalf("CreateNormalization hata döndü: %v", err)
	}

	updated, err := svc.UpdateNormalization(context.Background(), norm.ID, UpdateNormalizationInput{
		ActualQuantity:    decimal.NewFromInt(52),
		SystemQuantity:    decimal.NewFromInt(50),
		CostPrice:         decimal.NewFromInt(10),
		NormalizationDate: time.Date(2025, 12, 11, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("UpdateNormalization hata döndü: %v", err)
	}
	if !updated.AdjustedQuantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("yeniden hesap: adjusted beklenen 2, gelen %s", updated.AdjustedQuantity)
	}
	if !updated.DiscrepancyValue.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("yeniden hesap: tutar beklenen 20, gelen %s", updated.DiscrepancyValue)
	}
}

func TestViewNormalizationEmptyIsNotError(t *testing.T) {
	svc, _ := newTestService(t)

	rows, err := svc.ViewNormalization(context.Background(), ViewFilter{BranchID: 1, Month: 12, Year: 2025})
	if err != nil {
		t.Fatalf("boş görünüm hata dönmemeli: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("boş ama nil olmayan liste beklenir, gelen %v", rows)
	}
}

func TestViewNormalizationJoins(t *testing.T) {
	svc, db := newTestService(t)
	inv := seedInventory(t, svc, db)

	if _, err := svc.CreateNormalization(context.Background(), CreateNormalizationInput{
		InventoryID:       inv.ID,
		ActualQuantity:    decimal.NewFromInt(47),
		SystemQuantity:    decimal.NewFromInt(50),
		CostPrice:         decimal.RequireFromString("12.50"),
		NormalizationDate: time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		Remarks:           "haftalık mutabakat",
		CreatedBy:         "ali",
	}); err != nil {
		t.Fatalf("CreateNormalization hata döndü: %v", err)
	}

	rows, err := svc.ViewNormalization(context.Background(), ViewFilter{BranchID: inv.BranchID, Month: 12, Year: 2025})
	if err != nil {
		t.Fatalf("ViewNormalization hata döndü: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("beklenen 1 satır, gelen %d", len(rows))
	}
	row := rows[0]
	if row.ProductName != "Ayran 1L" || row.SKU != "AYR-001" {
		t.Fatalf("ürün alanları yanlış: %+v", row)
	}
	if row.CategoryName != "İçecek" || row.SupplierName != "Anadolu Gıda" {
		t.Fatalf("kategori/tedarikçi alanları yanlış: %+v", row)
	}
	if !row.AdjustedQuantity.Equal(decimal.NewFromInt(-3)) {
		t.Fatalf("görünümde adjusted beklenen -3, gelen %s", row.AdjustedQuantity)
	}

	// SKU filtresi eşleşmezse boş döner
	rows, err = svc.ViewNormalization(context.Background(), ViewFilter{BranchID: inv.BranchID, Month: 12, Year: 2025, SKU: "YOK"})
	if err != nil {
		t.Fatalf("ViewNormalization hata döndü: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("eşleşmeyen SKU için boş liste beklenir, gelen %d", len(rows))
	}
}
