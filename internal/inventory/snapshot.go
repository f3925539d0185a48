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

// Service - Sayım anlık görüntüleri ve normalizasyon kayıtları
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// NewServiceWithClock - Testlerde sabit saat vermek için
func NewServiceWithClock(db *gorm.DB, now func() time.Time) *Service {
	return &Service{db: db, now: now}
}

type CreateCountInput struct {
	BranchID       uint
	ProductID      uint
	InventoryDate  time.Time
	Type           models.InventoryType
	ActualQuantity decimal.Decimal
	CreatedBy      string
}

// CreateCount - Fiziksel sayım kaydı açar. SystemQuantity ve CostPrice sayım
// anındaki canlı şube-ürün kaydından örneklenir; fark ve fark tutarı decimal
// aritmetiğiyle hesaplanır.
func (s *Service) CreateCount(ctx context.Context, in CreateCountInput) (*models.Inventory, error) {
	if in.ActualQuantity.IsNegative() {
		return nil, apperr.InvalidArgument("sayım miktarı negatif olamaz")
	}
	if in.Type != models.InventoryTypeWeekly && in.Type != models.InventoryTypeMonthly {
		return nil, apperr.InvalidArgument("sayım tipi 'weekly' veya 'monthly' olmalı")
	}

	var created models.Inventory
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var bp models.BranchProduct
		err := tx.Where("branch_id = ? AND product_id = ?", in.BranchID, in.ProductID).First(&bp).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.InvalidReference("şube %d / ürün %d için canlı kayıt yok", in.BranchID, in.ProductID)
			}
			return err
		}

		discrepancy := in.ActualQuantity.Sub(bp.StockQuantity)
		inv := models.Inventory{
			BranchID:         in.BranchID,
			ProductID:        in.ProductID,
			InventoryDate:    in.InventoryDate,
			Year:             in.InventoryDate.Year(),
			Month:            int(in.InventoryDate.Month()),
			Week:             models.WeekOfDate(in.InventoryDate),
			Type:             in.Type,
			ActualQuantity:   in.ActualQuantity,
			SystemQuantity:   bp.StockQuantity,
			CostPrice:        bp.CostPrice,
			Discrepancy:      discrepancy,
			DiscrepancyValue: discrepancy.Mul(bp.CostPrice),
			CreatedAt:        s.now(),
			CreatedBy:        in.CreatedBy,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

type FilterWeeklyInput struct {
	BranchID  uint
	ProductID *uint
	Year      int
	Month     int
	Week      int
}

// FilterWeekly - Haftalık sayım listesi; salt okunur
func (s *Service) FilterWeekly(ctx context.Context, f FilterWeeklyInput) ([]models.Inventory, error) {
	q := s.db.WithContext(ctx).Model(&models.Inventory{}).
		Where("branch_id = ? AND year = ? AND month = ? AND week = ?", f.BranchID, f.Year, f.Month, f.Week)
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}

	var invs []models.Inventory
	if err := q.Order("inventory_date ASC, id ASC").Find(&invs).Error; err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return invs, nil
}

// Complete - Sayımı tamamlandı olarak işaretler. Bu andan sonra sayımın
// normalizasyon kayıtları değiştirilemez ve silinemez.
func (s *Service) Complete(ctx context.Context, id uint) (*models.Inventory, error) {
	var completed models.Inventory
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var inv models.Inventory
		if err := tx.First(&inv, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("sayım %d bulunamadı", id)
			}
			return err
		}
		if inv.IsCompleted {
			return apperr.InvalidArgument("sayım %d zaten tamamlanmış", id)
		}

		res := tx.Model(&models.Inventory{}).
			Where("id = ? AND is_completed = ?", id, false).
			Update("is_completed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("sayım %d bulunamadı", id)
		}

		inv.IsCompleted = true
		completed = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}
