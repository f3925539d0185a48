package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"magaza-backend/internal/models"

	"gorm.io/gorm"
)

// Recorder - Denetim kayıtlarını yazan bileşen. Yazma her zaman çağıranın
// transaction'ı (tx) üzerinden yapılır: denetim satırı, anlattığı durum
// değişikliğiyle birlikte commit olur, asla ayrı görünür olmaz.
type Recorder struct {
	now func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// NewRecorderWithClock - Testlerde sabit saat vermek için
func NewRecorderWithClock(now func() time.Time) *Recorder {
	return &Recorder{now: now}
}

type Entry struct {
	Action   models.AuditAction
	ActionBy string
	Old      any // Önceki hal (nil olabilir)
	New      any // Sonraki hal (nil olabilir)
	Remarks  string
}

// BranchProduct - Şube-ürün kaydı için denetim satırı ekler
func (r *Recorder) BranchProduct(tx *gorm.DB, branchID, productID uint, e Entry) error {
	trail := models.BranchProductAuditTrail{
		BranchID:   branchID,
		ProductID:  productID,
		AuditTrail: r.build(e),
	}
	if err := tx.Create(&trail).Error; err != nil {
		return fmt.Errorf("denetim kaydı yazılamadı: %w", err)
	}
	return nil
}

// Product - Ürün kataloğu için denetim satırı ekler
func (r *Recorder) Product(tx *gorm.DB, productID uint, e Entry) error {
	trail := models.ProductAuditTrail{
		ProductID:  productID,
		AuditTrail: r.build(e),
	}
	if err := tx.Create(&trail).Error; err != nil {
		return fmt.Errorf("denetim kaydı yazılamadı: %w", err)
	}
	return nil
}

func (r *Recorder) build(e Entry) models.AuditTrail {
	return models.AuditTrail{
		Action:     e.Action,
		OldValue:   snapshot(e.Old),
		NewValue:   snapshot(e.New),
		ActionBy:   e.ActionBy,
		ActionDate: r.now().UTC(),
		Remarks:    e.Remarks,
	}
}

// snapshot - Değerin o andaki halini JSON string olarak dondurur. Denetim
// satırı canlı kayda referans tutmaz; konu kayıt sonradan değişse de
// snapshot aynı kalır.
func snapshot(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		s := fmt.Sprintf("%+v", v)
		return &s
	}
	s := string(b)
	return &s
}
