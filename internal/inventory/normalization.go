package inventory

import (
	"context"
	"errors"
	"time"

	"magaza-backend/internal/apperr"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateNormalizationInput struct {
	InventoryID       uint
	ActualQuantity    decimal.Decimal
	SystemQuantity    decimal.Decimal
	CostPrice         decimal.Decimal
	NormalizationDate time.Time
	Remarks           string
	CreatedBy         string
}

// CreateNormalization - Sayım mutabakatı:
//
//	AdjustedQuantity = ActualQuantity - SystemQuantity
//	DiscrepancyValue = AdjustedQuantity * CostPrice
//
// Hesap decimal aritmetiğiyle yapılır, float kullanılmaz. Tamamlanmış
// sayıma yeni normalizasyon yazılamaz.
func (s *Service) CreateNormalization(ctx context.Context, in CreateNormalizationInput) (*models.InventoryNormalization, error) {
	if in.ActualQuantity.IsNegative() {
		return nil, apperr.InvalidArgument("sayım miktarı negatif olamaz")
	}

	var created models.InventoryNormalization
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		inv, err := lockInventory(tx, in.InventoryID)
		if err != nil {
			return err
		}
		if inv.IsCompleted {
			return apperr.InvalidArgument("sayım %d tamamlanmış, normalizasyon eklenemez", in.InventoryID)
		}

		adjusted := in.ActualQuantity.Sub(in.SystemQuantity)
		norm := models.InventoryNormalization{
			InventoryID:       in.InventoryID,
			AdjustedQuantity:  adjusted,
			SystemQuantity:    in.SystemQuantity,
			ActualQuantity:    in.ActualQuantity,
			DiscrepancyValue:  adjusted.Mul(in.CostPrice),
			CostPrice:         in.CostPrice,
			NormalizationDate: in.NormalizationDate,
			Remarks:           in.Remarks,
			CreatedBy:         in.CreatedBy,
			CreatedAt:         s.now(),
		}
		if err := tx.Create(&norm).Error; err != nil {
			return err
		}

		created = norm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetNormalizations - Tüm normalizasyon kayıtları (sayım bilgisiyle)
func (s *Service) GetNormalizations(ctx context.Context) ([]models.InventoryNormalization, error) {
	var norms []models.InventoryNormalization
	err := s.db.WithContext(ctx).Preload("Inventory").Order("id ASC").Find(&norms).Error
	if err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return norms, nil
}

func (s *Service) GetNormalization(ctx context.Context, id uint) (*models.InventoryNormalization, error) {
	var norm models.InventoryNormalization
	err := s.db.WithContext(ctx).Preload("Inventory").First(&norm, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("normalizasyon %d bulunamadı", id)
		}
		return nil, apperr.OperationFailed(err)
	}
	return &norm, nil
}

type UpdateNormalizationInput struct {
	ActualQuantity    decimal.Decimal
	SystemQuantity    decimal.Decimal
	CostPrice         decimal.Decimal
	NormalizationDate time.Time
	Remarks           string
}

// UpdateNormalization - Kayıt yeniden hesaplanarak güncellenir; sayım
// tamamlandıysa reddedilir.
func (s *Service) UpdateNormalization(ctx context.Context, id uint, in UpdateNormalizationInput) (*models.InventoryNormalization, error) {
	if in.ActualQuantity.IsNegative() {
		return nil, apperr.InvalidArgument("sayım miktarı negatif olamaz")
	}

	var updated models.InventoryNormalization
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var norm models.InventoryNormalization
		if err := tx.First(&norm, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("normalizasyon %d bulunamadı", id)
			}
			return err
		}

		inv, err := lockInventory(tx, norm.InventoryID)
		if err != nil {
			return err
		}
		if inv.IsCompleted {
			return apperr.InvalidArgument("sayım %d tamamlanmış, normalizasyon değiştirilemez", norm.InventoryID)
		}

		adjusted := in.ActualQuantity.Sub(in.SystemQuantity)
		res := tx.Model(&models.InventoryNormalization{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"actual_quantity":    in.ActualQuantity,
				"system_quantity":    in.SystemQuantity,
				"adjusted_quantity":  adjusted,
				"cost_price":         in.CostPrice,
				"discrepancy_value":  adjusted.Mul(in.CostPrice),
				"normalization_date": in.NormalizationDate,
				"remarks":            in.Remarks,
			})
		if res.Error != nil {
			return res.Error
		}

		norm.ActualQuantity = in.ActualQuantity
		norm.SystemQuantity = in.SystemQuantity
		norm.AdjustedQuantity = adjusted
		norm.CostPrice = in.CostPrice
		norm.DiscrepancyValue = adjusted.Mul(in.CostPrice)
		norm.NormalizationDate = in.NormalizationDate
		norm.Remarks = in.Remarks
		updated = norm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteNormalization - Sayım tamamlanmadıysa kaydı siler
func (s *Service) DeleteNormalization(ctx context.Context, id uint) error {
	return database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var norm models.InventoryNormalization
		if err := tx.First(&norm, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("normalizasyon %d bulunamadı", id)
			}
			return err
		}

		inv, err := lockInventory(tx, norm.InventoryID)
		if err != nil {
			return err
		}
		if inv.IsCompleted {
			return apperr.InvalidArgument("sayım %d tamamlanmış, normalizasyon silinemez", norm.InventoryID)
		}

		return tx.Delete(&models.InventoryNormalization{}, "id = ?", id).Error
	})
}

// NormalizationRow - Raporlama görünümü satırı
type NormalizationRow struct {
	BranchID          uint            `json:"branch_id"`
	ProductID         uint            `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	CategoryID        uint            `json:"category_id"`
	CategoryName      string          `json:"category_name"`
	SupplierID        uint            `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name"`
	NormalizationDate time.Time       `json:"normalization_date"`
	ActualQuantity    decimal.Decimal `json:"actual_quantity"`
	SystemQuantity    decimal.Decimal `json:"system_quantity"`
	AdjustedQuantity  decimal.Decimal `json:"adjusted_quantity"`
	DiscrepancyValue  decimal.Decimal `json:"discrepancy_value"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	Remarks           string          `json:"remarks"`
	CreatedBy         string          `json:"created_by"`
}

type ViewFilter struct {
	BranchID   uint
	Month      int
	Year       int
	CategoryID *uint
	SupplierID *uint
	SKU        string
}

// ViewNormalization - Normalizasyon -> sayım -> şube-ürün -> ürün ->
// kategori/tedarikçi birleşimiyle raporlama görünümü. Eşleşme yoksa hata
// değil boş liste döner.
func (s *Service) ViewNormalization(ctx context.Context, f ViewFilter) ([]NormalizationRow, error) {
	q := s.db.WithContext(ctx).
		Table("inventory_normalizations AS n").
		Joins("JOIN inventories AS i ON i.id = n.inventory_id").
		Joins("JOIN branch_products AS bp ON bp.branch_id = i.branch_id AND bp.product_id = i.product_id").
		Joins("JOIN products AS p ON p.id = i.product_id").
		Joins("JOIN categories AS c ON c.id = p.category_id").
		Joins("JOIN suppliers AS sp ON sp.id = p.supplier_id").
		Where("i.branch_id = ? AND i.month = ? AND i.year = ?", f.BranchID, f.Month, f.Year)

	if f.CategoryID != nil {
		q = q.Where("p.category_id = ?", *f.CategoryID)
	}
	if f.SupplierID != nil {
		q = q.Where("p.supplier_id = ?", *f.SupplierID)
	}
	if f.SKU != "" {
		q = q.Where("p.sku = ?", f.SKU)
	}

	rows := []NormalizationRow{}
	err := q.Select(`i.branch_id, i.product_id, p.name AS product_name, p.sku,
		p.category_id, c.name AS category_name,
		p.supplier_id, sp.name AS supplier_name,
		n.normalization_date, n.actual_quantity, n.system_quantity,
		n.adjusted_quantity, n.discrepancy_value, bp.cost_price,
		n.remarks, n.created_by`).
		Order("n.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return rows, nil
}

// lockInventory - Sayım satırına değer değiştirmeyen koşullu UPDATE ile
// dokunarak satır kilidini alır: aynı anda koşan Complete bu kilitte bekler,
// sonraki okuma tamamlanma durumunun commit edilmiş halini görür. Tamamlanmış
// sayıma normalizasyon sızamaz.
func lockInventory(tx *gorm.DB, id uint) (*models.Inventory, error) {
	res := tx.Model(&models.Inventory{}).
		Where("id = ?", id).
		Update("is_completed", gorm.Expr("is_completed"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidReference("sayım %d bulunamadı", id)
	}

	var inv models.Inventory
	if err := tx.First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidReference("sayım %d bulunamadı", id)
		}
		return nil, err
	}
	return &inv, nil
}
