package audit

import (
	"strings"
	"testing"
	"time"

	"magaza-backend/internal/models"
	"magaza-backend/internal/testutil"
)

func TestRecorderWritesSnapshotUTC(t *testing.T) {
	db := testutil.NewDB(t)

	// Yerel saat diliminde sabit an; kayda UTC düşmeli
	loc := time.FixedZone("UTC+3", 3*60*60)
	clock := func() time.Time { return time.Date(2025, 12, 9, 13, 30, 0, 0, loc) }
	r := NewRecorderWithClock(clock)

	before := map[string]any{"stock_quantity": "20"}
	after := map[string]any{"stock_quantity": "15"}
	err := r.BranchProduct(db, 1, 2, Entry{
		Action:   models.AuditActionUpdated,
		ActionBy: "ali",
		Old:      before,
		New:      after,
		Remarks:  "haftalık düzeltme",
	})
	if err != nil {
		t.Fatalf("BranchProduct hata döndü: %v", err)
	}

	var trail models.BranchProductAuditTrail
	if err := db.First(&trail).Error; err != nil {
		t.Fatalf("denetim kaydı okunamadı: %v", err)
	}
	if trail.BranchID != 1 || trail.ProductID != 2 {
		t.Fatalf("anahtar alanlar yanlış: %+v", trail)
	}
	if trail.OldValue == nil || !strings.Contains(*trail.OldValue, `"20"`) {
		t.Fatalf("old_value JSON snapshot içermeli: %v", trail.OldValue)
	}
	if trail.NewValue == nil || !strings.Contains(*trail.NewValue, `"15"`) {
		t.Fatalf("new_value JSON snapshot içermeli: %v", trail.NewValue)
	}

	want := time.Date(2025, 12, 9, 10, 30, 0, 0, time.UTC)
	if !trail.ActionDate.Equal(want) {
		t.Fatalf("action_date UTC'ye çevrilmeli: beklenen %s, gelen %s", want, trail.ActionDate)
	}
}

func TestRecorderNilValuesStayNil(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewRecorderWithClock(func() time.Time { return time.Date(2025, 12, 9, 10, 0, 0, 0, time.UTC) })

	err := r.Product(db, 7, Entry{
		Action:   models.AuditActionSoftDeleted,
		ActionBy: "veli",
		Remarks:  "Ürün pasife alındı",
	})
	if err != nil {
		t.Fatalf("Product hata döndü: %v", err)
	}

	var trail models.ProductAuditTrail
	if err := db.First(&trail).Error; err != nil {
		t.Fatalf("denetim kaydı okunamadı: %v", err)
	}
	if trail.OldValue != nil || trail.NewValue != nil {
		t.Fatalf("değer verilmeyen kayıtta old/new nil kalmalı: %+v", trail)
	}
	if trail.Action != models.AuditActionSoftDeleted || trail.ActionBy != "veli" {
		t.Fatalf("aksiyon alanları yanlış: %+v", trail)
	}
}

// Snapshot donmuş olmalı: konu kayıt sonradan değişse de iz aynı kalır
func TestRecorderSnapshotIsFrozen(t *testing.T) {
	db := testutil.NewDB(t)
	r := NewRecorderWithClock(func() time.Time { return time.Date(2025, 12, 9, 10, 0, 0, 0, time.UTC) })

	state := map[string]any{"stock_quantity": "20"}
	if err := r.BranchProduct(db, 1, 2, Entry{Action: models.AuditActionCreated, ActionBy: "ali", New: state}); err != nil {
		t.Fatalf("BranchProduct hata döndü: %v", err)
	}

	state["stock_quantity"] = "99"

	var trail models.BranchProductAuditTrail
	if err := db.First(&trail).Error; err != nil {
		t.Fatalf("denetim kaydı okunamadı: %v", err)
	}
	if !strings.Contains(*trail.NewValue, `"20"`) {
		t.Fatalf("snapshot kayıt anındaki değeri korumalı: %s", *trail.NewValue)
	}
}
