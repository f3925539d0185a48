package catalog

import (
	"context"
	"errors"
	"time"

	"magaza-backend/internal/apperr"
	"magaza-backend/internal/audit"
	"magaza-backend/internal/database"
	"magaza-backend/internal/models"

	"gorm.io/gorm"
)

// Service - Ürün kataloğu. Şube-ürün kayıtlarının referans verdiği ürünler
// burada yönetilir; ürün değişiklikleri de denetim iziyle yazılır.
type Service struct {
	db       *gorm.DB
	recorder *audit.Recorder
	now      func() time.Time
}

func NewService(db *gorm.DB, recorder *audit.Recorder) *Service {
	return &Service{db: db, recorder: recorder, now: time.Now}
}

type ProductInput struct {
	Name       string
	SKU        string
	CategoryID uint
	SupplierID uint
	Remarks    string
	CreatedBy  string
}

// CreateProducts - Toplu ürün ekleme, ya hep ya hiç. Önce tüm adaylar
// doğrulanır; tek aday bile geçersizse hiçbir ürün eklenmez.
func (s *Service) CreateProducts(ctx context.Context, inputs []ProductInput) ([]models.Product, error) {
	if len(inputs) == 0 {
		return nil, apperr.InvalidArgument("eklenecek ürün listesi boş")
	}

	var created []models.Product
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		created = created[:0]

		var cerrs []apperr.CandidateError
		for i, in := range inputs {
			if in.Name == "" {
				cerrs = append(cerrs, apperr.CandidateError{Index: i, Message: "ürün adı boş olamaz"})
				continue
			}
			if err := validateProductRefs(tx, in.CategoryID, in.SupplierID); err != nil {
				if errors.Is(err, apperr.ErrInvalidReference) {
					cerrs = append(cerrs, apperr.CandidateError{Index: i, Message: err.Error()})
					continue
				}
				return err
			}
		}
		if len(cerrs) > 0 {
			return &apperr.BatchError{Candidates: cerrs}
		}

		for _, in := range inputs {
			now := s.now()
			p := models.Product{
				Name:       in.Name,
				SKU:        in.SKU,
				CategoryID: in.CategoryID,
				SupplierID: in.SupplierID,
				Remarks:    in.Remarks,
				CreatedAt:  now,
				CreatedBy:  in.CreatedBy,
				UpdatedAt:  now,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}

			if err := s.recorder.Product(tx, p.ID, audit.Entry{
				Action:   models.AuditActionCreated,
				ActionBy: in.CreatedBy,
				New:      p,
				Remarks:  in.Remarks,
			}); err != nil {
				return err
			}

			created = append(created, p)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type UpdateProductInput struct {
	Name       string
	SKU        string
	CategoryID uint
	SupplierID uint
	Remarks    string
	UpdatedBy  string
}

func (s *Service) UpdateProduct(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, apperr.InvalidArgument("ürün adı boş olamaz")
	}

	var after models.Product
	err := database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var before models.Product
		if err := tx.First(&before, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("ürün %d bulunamadı", id)
			}
			return err
		}

		if err := validateProductRefs(tx, in.CategoryID, in.SupplierID); err != nil {
			return err
		}

		now := s.now()
		updatedBy := in.UpdatedBy
		res := tx.Model(&models.Product{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":        in.Name,
				"sku":         in.SKU,
				"category_id": in.CategoryID,
				"supplier_id": in.SupplierID,
				"remarks":     in.Remarks,
				"updated_at":  now,
				"updated_by":  updatedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("ürün %d bulunamadı", id)
		}

		after = before
		after.Name = in.Name
		after.SKU = in.SKU
		after.CategoryID = in.CategoryID
		after.SupplierID = in.SupplierID
		after.Remarks = in.Remarks
		after.UpdatedAt = now
		after.UpdatedBy = &updatedBy

		return s.recorder.Product(tx, id, audit.Entry{
			Action:   models.AuditActionUpdated,
			ActionBy: in.UpdatedBy,
			Old:      before,
			New:      after,
			Remarks:  in.Remarks,
		})
	})
	if err != nil {
		return nil, err
	}
	return &after, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, apperr.OperationFailed(err)
	}
	return products, nil
}

// SoftDeleteProduct - Ürünü pasife alır. Üründe canlı şube ilişkisi varsa
// reddedilir: önce şube kayıtları kapatılmalı.
func (s *Service) SoftDeleteProduct(ctx context.Context, id uint, deletedBy string) error {
	return database.RunInTx(ctx, s.db, func(tx *gorm.DB) error {
		var live int64
		err := tx.Model(&models.BranchProduct{}).Where("product_id = ?", id).Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return apperr.InvalidArgument("ürün %d için %d canlı şube kaydı var, önce onlar pasife alınmalı", id, live)
		}

		res := tx.Model(&models.Product{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"deleted_at": s.now(),
				"deleted_by": deletedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("ürün %d bulunamadı veya zaten silinmiş", id)
		}

		return s.recorder.Product(tx, id, audit.Entry{
			Action:   models.AuditActionSoftDeleted,
			ActionBy: deletedBy,
			Remarks:  "Ürün pasife alındı",
		})
	})
}

func validateProductRefs(tx *gorm.DB, categoryID, supplierID uint) error {
	var n int64
	if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.InvalidReference("kategori %d tanımlı değil", categoryID)
	}
	if err := tx.Model(&models.Supplier{}).Where("id = ?", supplierID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.InvalidReference("tedarikçi %d tanımlı değil", supplierID)
	}
	return nil
}
